// Package extractwind moves utility classes out of Blade templates.
//
// Extraction gives every element that carries a class attribute a stable
// identifier, replaces its class list with a single generated class and
// records the original classes in a mapping file per template. Generation
// turns the mapping files back into a stylesheet of @apply rules and hands
// it to the CSS compiler.
//
// # Extraction
//
//	config := extractwind.DefaultConfig()
//	config.ViewPath = "resources/views"
//	result, err := extractwind.Extract(config)
//
// A template resources/views/card.blade.php containing
//
//	<div class="flex p-2">
//
// is written to the output tree as
//
//	<div class="auto-gen-0x1y2z3w4v5u6-card" data-class-name="auto-gen-0x1y2z3w4v5u6">
//
// and resources/views_extracted/card-classes.json records
// {"auto-gen-0x1y2z3w4v5u6": {"originalClasses": ["flex", "p-2"], ...}}.
//
// # Generation
//
//	result, err := extractwind.Generate(ctx, extractwind.DefaultGenerateConfig())
//
// # Verification and watch mode
//
// Verify audits a finished run; Watch re-extracts templates as they change.
package extractwind
