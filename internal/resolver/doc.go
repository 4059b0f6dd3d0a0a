// Package resolver links path types to the module that declares them.
//
// Resolution runs once per document, after every module is parsed:
//
//  1. Each import is marked registered when some input path ends with the
//     import path, compared component by component.
//  2. The structure names of each module form its roster.
//  3. Every path type in bindings, constants, fields, parameters (including
//     ptr<function, T> element types) and return types is resolved. A module
//     qualifier naming a registered import gives Named(alias); otherwise a
//     name in the roster gives This. Anything else stays Undefined.
//
// Resolution is idempotent: a path type that has left Undefined is never
// revisited.
package resolver
