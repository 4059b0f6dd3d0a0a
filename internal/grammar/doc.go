// Package grammar matches WGSL module text against the declaration and type
// grammar and produces a tree of rule-tagged nodes.
//
// Only the declaration surface is analysed: imports, constants, resource
// bindings, structures and function signatures. Function bodies and constant
// values are kept as raw text.
//
// # Basic Usage
//
//	tree, err := grammar.Parse(source)
//	if err != nil {
//	    var syn *grammar.SyntaxError
//	    if errors.As(err, &syn) {
//	        fmt.Println(syn.FormatWithContext())
//	    }
//	    return err
//	}
//
//	for _, decl := range tree.Children {
//	    fmt.Println(decl.Rule, decl.Text)
//	}
//
// Single rules can be matched against a whole input, which is how the rule
// tests exercise the grammar:
//
//	node, err := grammar.ParseRule(grammar.RuleType, "Utils::Array<f32>")
//
// # Comments
//
// `//!` lines are module docs and `///` lines are item docs. Plain `//` and
// `/* */` comments never reach the tree.
//
// # Error Handling
//
// Parsing stops at the first structural error and returns a *SyntaxError
// carrying the line and column. There is no partial tree.
package grammar
