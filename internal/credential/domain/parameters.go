package domain

import "time"

// GenerationParameters describe how a value is produced.
type GenerationParameters interface {
	isGenerationParameters()
}

// PasswordParameters control password generation.
type PasswordParameters struct {
	Length         int  `json:"length,omitempty"`
	ExcludeLower   bool `json:"exclude_lower,omitempty"`
	ExcludeUpper   bool `json:"exclude_upper,omitempty"`
	ExcludeNumber  bool `json:"exclude_number,omitempty"`
	IncludeSpecial bool `json:"include_special,omitempty"`
}

// UserParameters control user generation. An empty Username is generated.
type UserParameters struct {
	Username string `json:"username,omitempty"`
	PasswordParameters
}

// CertificateParameters control certificate generation.
type CertificateParameters struct {
	CommonName       string        `json:"common_name,omitempty"`
	Organization     string        `json:"organization,omitempty"`
	OrganizationUnit string        `json:"organization_unit,omitempty"`
	Locality         string        `json:"locality,omitempty"`
	State            string        `json:"state,omitempty"`
	Country          string        `json:"country,omitempty"`
	AlternativeNames []string      `json:"alternative_names,omitempty"`
	KeyUsage         []string      `json:"key_usage,omitempty"`
	ExtendedKeyUsage []string      `json:"extended_key_usage,omitempty"`
	CaName           string        `json:"ca,omitempty"`
	IsCA             bool          `json:"is_ca,omitempty"`
	SelfSign         bool          `json:"self_sign,omitempty"`
	Duration         time.Duration `json:"duration,omitempty"`
	KeyLength        int           `json:"key_length,omitempty"`
}

// RSAParameters control rsa key pair generation.
type RSAParameters struct {
	KeyLength int `json:"key_length,omitempty"`
}

// SSHParameters control ssh key pair generation.
type SSHParameters struct {
	KeyLength int    `json:"key_length,omitempty"`
	Comment   string `json:"ssh_comment,omitempty"`
}

func (*PasswordParameters) isGenerationParameters()    {}
func (*UserParameters) isGenerationParameters()        {}
func (*CertificateParameters) isGenerationParameters() {}
func (*RSAParameters) isGenerationParameters()         {}
func (*SSHParameters) isGenerationParameters()         {}

// GenerateRequest is what a generator needs to produce a value, and what a write needs
// beyond the value itself. Set writes carry no Parameters and always overwrite.
type GenerateRequest struct {
	Name       string
	Type       Type
	Mode       Mode
	Parameters GenerationParameters
}

// NewSetRequest builds the request for a caller-supplied value.
func NewSetRequest(name string, t Type) GenerateRequest {
	return GenerateRequest{Name: NormalizeName(name), Type: t, Mode: ModeOverwrite}
}

// IsCA reports whether the request produces a certificate authority.
func (r GenerateRequest) IsCA() bool {
	params, ok := r.Parameters.(*CertificateParameters)
	return ok && params.IsCA
}

// Overwrite reports whether an existing credential is replaced.
func (r GenerateRequest) Overwrite() bool {
	return r.Mode != ModeNoOverwrite
}
