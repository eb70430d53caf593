// Package functions holds the column functions and string8 transformers
// that the function and string8transform stages resolve by name.
//
// Both registries are explicit values. Default and DefaultTransformers
// return registries with the built-ins; callers wanting more build their
// own with NewRegistry or NewTransformerRegistry:
//
//	defs := append(functions.Builtins(), functions.Definition{
//		Name:       "Text.Reverse",
//		ResultType: data.String8,
//		MinInputs:  1,
//		MaxInputs:  1,
//		New:        newReverse,
//	})
//	registry, err := functions.NewRegistry(defs...)
package functions
