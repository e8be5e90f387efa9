// Package selectorcfg loads named selector definitions from an HCL file,
// so frequently-used selections can be saved and invoked by name:
//
//	selector "nightly" {
//	  description = "everything the nightly build touches"
//	  include     = ["tag:nightly+", "@source:events"]
//	  exclude     = ["tag:wip"]
//	  default     = true
//	}
package selectorcfg

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/dagselect/internal/selector"
	"github.com/vk/dagselect/internal/syntax"
)

// Definition is one named selector from the configuration file.
type Definition struct {
	Name        string
	Description string
	Include     []string
	Exclude     []string
	Greedy      bool
	Default     bool
}

// Compile builds the selection spec tree for this definition.
func (d *Definition) Compile() (selector.Spec, error) {
	spec, err := syntax.ParseSpec(d.Include, d.Exclude, d.Greedy)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", d.Name, err)
	}
	return spec, nil
}

// File is a parsed selector configuration file.
type File struct {
	// Selectors lists the definitions in declaration order.
	Selectors []*Definition

	byName map[string]*Definition
}

// Get looks up a definition by name.
func (f *File) Get(name string) (*Definition, bool) {
	d, ok := f.byName[name]
	return d, ok
}

// DefaultSelector returns the definition marked default, if any.
func (f *File) DefaultSelector() (*Definition, bool) {
	for _, d := range f.Selectors {
		if d.Default {
			return d, true
		}
	}
	return nil, false
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "selector", LabelNames: []string{"name"}},
	},
}

var selectorSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "include", Required: true},
		{Name: "exclude"},
		{Name: "greedy"},
		{Name: "default"},
	},
}

// Load reads and decodes a selector configuration file.
func Load(path string) (*File, error) {
	parser := hclparse.NewParser()
	src, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, diags
	}
	return decode(src.Body)
}

// Parse decodes selector configuration from an in-memory buffer. The
// filename only labels diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	parsed, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return decode(parsed.Body)
}

// decode walks the file body and validates the selector blocks.
func decode(body hcl.Body) (*File, error) {
	content, diags := body.Content(fileSchema)

	file := &File{byName: make(map[string]*Definition)}
	for _, block := range content.Blocks {
		def, defDiags := decodeSelector(block)
		diags = append(diags, defDiags...)
		if def == nil {
			continue
		}

		if _, exists := file.byName[def.Name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate selector",
				Detail:   fmt.Sprintf("A selector named %q is already defined.", def.Name),
				Subject:  &block.DefRange,
			})
			continue
		}
		file.byName[def.Name] = def
		file.Selectors = append(file.Selectors, def)
	}

	if defaults := defaultNames(file); len(defaults) > 1 {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Multiple default selectors",
			Detail:   fmt.Sprintf("At most one selector may set default = true, found: %v.", defaults),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return file, nil
}

// defaultNames collects the names of all definitions marked default.
func defaultNames(f *File) []string {
	var names []string
	for _, d := range f.Selectors {
		if d.Default {
			names = append(names, d.Name)
		}
	}
	return names
}

// decodeSelector decodes one selector block.
func decodeSelector(block *hcl.Block) (*Definition, hcl.Diagnostics) {
	content, diags := block.Body.Content(selectorSchema)

	def := &Definition{Name: block.Labels[0]}
	def.Description, diags = stringAttr(content.Attributes["description"], diags)
	def.Include, diags = stringListAttr(content.Attributes["include"], diags)
	def.Exclude, diags = stringListAttr(content.Attributes["exclude"], diags)
	def.Greedy, diags = boolAttr(content.Attributes["greedy"], diags)
	def.Default, diags = boolAttr(content.Attributes["default"], diags)

	if attr, ok := content.Attributes["include"]; ok && len(def.Include) == 0 && !diags.HasErrors() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Empty include list",
			Detail:   "The 'include' attribute must name at least one selection criterion.",
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}

	// Surface unparsable criteria at load time, not first use.
	if _, err := def.Compile(); err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid selection criterion",
			Detail:   err.Error(),
			Subject:  &block.DefRange,
		})
		return nil, diags
	}
	return def, diags
}

// attrValue evaluates an attribute and converts it to the wanted type.
func attrValue(attr *hcl.Attribute, want cty.Type, diags hcl.Diagnostics) (cty.Value, hcl.Diagnostics) {
	val, valDiags := attr.Expr.Value(nil)
	diags = append(diags, valDiags...)
	if valDiags.HasErrors() {
		return cty.NilVal, diags
	}

	converted, err := convert.Convert(val, want)
	if err != nil {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid attribute value",
			Detail:   fmt.Sprintf("The %q attribute is not a valid %s: %s.", attr.Name, want.FriendlyName(), err),
			Subject:  attr.Expr.Range().Ptr(),
		})
		return cty.NilVal, diags
	}
	return converted, diags
}

// stringAttr decodes an optional string attribute.
func stringAttr(attr *hcl.Attribute, diags hcl.Diagnostics) (string, hcl.Diagnostics) {
	if attr == nil {
		return "", diags
	}
	val, diags := attrValue(attr, cty.String, diags)
	if val.IsNull() || !val.IsKnown() {
		return "", diags
	}
	return val.AsString(), diags
}

// stringListAttr decodes an optional list-of-strings attribute.
func stringListAttr(attr *hcl.Attribute, diags hcl.Diagnostics) ([]string, hcl.Diagnostics) {
	if attr == nil {
		return nil, diags
	}
	val, diags := attrValue(attr, cty.List(cty.String), diags)
	if val.IsNull() || !val.IsKnown() {
		return nil, diags
	}

	var items []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			continue
		}
		items = append(items, elem.AsString())
	}
	return items, diags
}

// boolAttr decodes an optional bool attribute, defaulting to false.
func boolAttr(attr *hcl.Attribute, diags hcl.Diagnostics) (bool, hcl.Diagnostics) {
	if attr == nil {
		return false, diags
	}
	val, diags := attrValue(attr, cty.Bool, diags)
	if val.IsNull() || !val.IsKnown() {
		return false, diags
	}
	return val.True(), diags
}
