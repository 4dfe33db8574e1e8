package domain

// CredentialType selects how the device session authenticates
type CredentialType string

const (
	CredentialSSHKey      CredentialType = "ssh_key"
	CredentialSSHPassword CredentialType = "ssh_password"
)

// Credential holds device login material. It is never persisted or logged.
type Credential struct {
	Username   string
	Password   string
	PrivateKey []byte
	Passphrase string
}

// Type reports which auth method the credential carries; key auth wins when both are set
func (c Credential) Type() CredentialType {
	if len(c.PrivateKey) > 0 {
		return CredentialSSHKey
	}
	if c.Password != "" {
		return CredentialSSHPassword
	}
	return ""
}

// String hides secrets when a credential ends up in a log line
func (c Credential) String() string {
	return "Credential{user=" + c.Username + ", type=" + string(c.Type()) + "}"
}
