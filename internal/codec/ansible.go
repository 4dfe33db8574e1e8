package codec

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"nxfacts/internal/domain"
)

// inventoryGroup is the group gathered switches are filed under
const inventoryGroup = "nxos"

// AnsibleCodec writes an Ansible YAML inventory with the facts as host vars, so the
// result can be dropped next to an existing inventory.
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible"
}

type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts"`
}

type ansibleHost struct {
	AnsibleHost string         `yaml:"ansible_host,omitempty"`
	Vars        map[string]any `yaml:",inline"`
}

// Export files the device under all.children.nxos.hosts.<name>. The inventory name is
// the gathered hostname, falling back to the address that was dialed.
func (c *AnsibleCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	name := inventoryName(snap)
	if name == "" {
		return fmt.Errorf("failed to encode Ansible inventory: snapshot has no hostname or host")
	}

	host := ansibleHost{AnsibleHost: snap.Host, Vars: make(map[string]any, len(snap.Facts))}
	for key, value := range snap.Facts {
		host.Vars[key] = value
	}
	if host.AnsibleHost != "" {
		delete(host.Vars, "ansible_host")
	}

	inv := ansibleInventory{
		All: ansibleGroup{
			Children: map[string]ansibleGroupDef{
				inventoryGroup: {Hosts: map[string]ansibleHost{name: host}},
			},
		},
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}
	return nil
}

func inventoryName(snap *domain.Snapshot) string {
	if snap.Hostname != "" {
		return snap.Hostname
	}
	for key, value := range snap.Facts {
		if strings.HasSuffix(key, domain.FactHostname) {
			if s, ok := value.(string); ok && s != "" {
				return s
			}
		}
	}
	return snap.Host
}
