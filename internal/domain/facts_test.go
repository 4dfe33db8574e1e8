package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterfaceTable(t *testing.T) {
	table := InterfaceTable{}

	a := table.Get("Ethernet1/24")
	a.OperStatus = "up"
	b := table.Get("Ethernet1/24")
	table.Get("Vlan1323")
	table.Get("mgmt0")

	assert.Same(t, a, b)
	assert.Equal(t, "up", table["Ethernet1/24"].OperStatus)
	assert.Equal(t, []string{"Ethernet1/24", "Vlan1323", "mgmt0"}, table.Names())
}

func TestInterfaceFact_JSONOmitsUnsetFields(t *testing.T) {
	intf := &InterfaceFact{OperStatus: "up", MTU: "9216"}
	intf.SetBandwidth(0)

	out, err := json.Marshal(intf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operstatus":"up","mtu":"9216","bandwidth":0}`, string(out))
}

func TestMACSet(t *testing.T) {
	set := NewMACSet()

	assert.True(t, set.Add("a4:11:bb:40:c6:b4"))
	assert.True(t, set.Add("a4:11:bb:40:c6:b7"))
	assert.False(t, set.Add("a4:11:bb:40:c6:b4"))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"a4:11:bb:40:c6:b4", "a4:11:bb:40:c6:b7"}, set.Macs)

	var zero MACSet
	assert.True(t, zero.Add("00:0e:1e:05:8f:b0"))
	assert.False(t, zero.Add("00:0e:1e:05:8f:b0"))
}

func TestMACSet_JSON(t *testing.T) {
	out, err := json.Marshal(NewMACSet())
	require.NoError(t, err)
	assert.JSONEq(t, `{"macs":[]}`, string(out))
}

func TestFactMap(t *testing.T) {
	m := FactMap{}
	m.Merge(Fragment{"hostname": "sw1", "version": "9.3(10)"})
	m.Merge(Fragment{"version": "10.2(3)"})

	assert.Equal(t, []string{"hostname", "version"}, m.Keys())
	assert.Equal(t, "10.2(3)", m.String("version"))
	assert.Equal(t, "", m.String("missing"))

	prefixed := m.WithPrefix(DefaultFactPrefix)
	assert.Equal(t, []string{"ansible_net_hostname", "ansible_net_version"}, prefixed.Keys())
	assert.Equal(t, []string{"hostname", "version"}, m.Keys())
}

func TestSubsetFailure(t *testing.T) {
	f := SubsetFailure{Subset: "routing", Stage: StagePopulate, Err: assert.AnError}

	assert.Equal(t, "subset routing failed during populate: "+assert.AnError.Error(), f.Error())
	assert.ErrorIs(t, f, assert.AnError)
}

func TestCredential(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want CredentialType
	}{
		{"key", Credential{Username: "admin", PrivateKey: []byte("k")}, CredentialSSHKey},
		{"password", Credential{Username: "admin", Password: "secret"}, CredentialSSHPassword},
		{"key wins", Credential{Username: "admin", Password: "secret", PrivateKey: []byte("k")}, CredentialSSHKey},
		{"none", Credential{Username: "admin"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.Type())
		})
	}

	s := Credential{Username: "admin", Password: "hunter2"}.String()
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "admin")
}

func TestSnapshotSummary(t *testing.T) {
	snap := &Snapshot{ID: "r1", Host: "10.0.0.1", Hostname: "sw1", Subsets: []string{"default"}, Warnings: []string{"w"}}
	sum := snap.Summary()
	assert.Equal(t, "r1", sum.ID)
	assert.Equal(t, 1, sum.WarningCount)
	assert.Equal(t, []string{"default"}, sum.Subsets)
}
