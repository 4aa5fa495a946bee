package domain

// CredentialValue is the plaintext payload of one version. The concrete type
// depends on the credential type.
type CredentialValue interface {
	isCredentialValue()
}

// StringValue is the payload of password and value credentials.
type StringValue string

// JSONValue is the payload of json credentials.
type JSONValue map[string]any

// UserValue is the payload of user credentials.
type UserValue struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// CertificateValue is the payload of certificate credentials. All fields are PEM.
type CertificateValue struct {
	CA          string `json:"ca,omitempty"`
	Certificate string `json:"certificate"`
	PrivateKey  string `json:"private_key"`
	CaName      string `json:"ca_name,omitempty"`
}

// KeyPairValue is the payload of rsa and ssh credentials.
type KeyPairValue struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

func (StringValue) isCredentialValue()      {}
func (JSONValue) isCredentialValue()        {}
func (UserValue) isCredentialValue()        {}
func (CertificateValue) isCredentialValue() {}
func (KeyPairValue) isCredentialValue()     {}
