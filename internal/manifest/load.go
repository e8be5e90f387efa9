package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/dagselect/internal/nodeid"
)

// memberDoc is the YAML shape of one member entry. Pointer fields
// distinguish "absent" from zero values so defaults can be applied.
type memberDoc struct {
	ID        string            `yaml:"id"`
	Kind      ResourceKind      `yaml:"resource_type"`
	Name      string            `yaml:"name"`
	Package   string            `yaml:"package"`
	FQN       []string          `yaml:"fqn"`
	Path      string            `yaml:"path"`
	Tags      []string          `yaml:"tags"`
	Config    map[string]string `yaml:"config"`
	Enabled   *bool             `yaml:"enabled"`
	Empty     bool              `yaml:"empty"`
	DependsOn []string          `yaml:"depends_on"`
}

// fileDoc is the YAML shape of a manifest document.
type fileDoc struct {
	Members []memberDoc `yaml:"members"`
}

// Decode reads a YAML manifest document and builds a Manifest from it.
func Decode(r io.Reader) (*Manifest, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}

	members := make([]*Member, 0, len(doc.Members))
	for _, d := range doc.Members {
		m, err := d.toMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return New(members)
}

// LoadFile reads and decodes a manifest YAML file.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// toMember validates a raw document entry and fills in defaults.
func (d memberDoc) toMember() (*Member, error) {
	id, err := nodeid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("member %q: %w", d.ID, err)
	}
	if d.Kind == "" {
		return nil, fmt.Errorf("member %q: missing resource_type", d.ID)
	}

	name := d.Name
	if name == "" {
		name = id.Name()
	}
	pkg := d.Package
	if pkg == "" {
		pkg = id.Package()
	}
	fqn := d.FQN
	if len(fqn) == 0 {
		// Default FQN mirrors the id without its kind segment.
		fqn = strings.Split(id.String(), ".")[1:]
	}
	enabled := true
	if d.Enabled != nil {
		enabled = *d.Enabled
	}

	deps := make([]nodeid.ID, 0, len(d.DependsOn))
	for _, raw := range d.DependsOn {
		dep, err := nodeid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("member %q: depends_on: %w", d.ID, err)
		}
		deps = append(deps, dep)
	}

	return &Member{
		ID:        id,
		Kind:      d.Kind,
		Name:      name,
		Package:   pkg,
		FQN:       fqn,
		Path:      d.Path,
		Tags:      d.Tags,
		Config:    d.Config,
		Enabled:   enabled,
		Empty:     d.Empty,
		DependsOn: deps,
	}, nil
}
