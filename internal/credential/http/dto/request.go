// Package dto provides data transfer objects for the credential data API.
package dto

import (
	"encoding/json"
	"time"

	validation "github.com/jellydator/validation"

	credentialDomain "github.com/allisson/credstore/internal/credential/domain"
	customValidation "github.com/allisson/credstore/internal/validation"
)

const maxCertificateDurationDays = 3650

// SetCredentialRequest stores a caller-supplied value.
// The shape of Value depends on Type.
type SetCredentialRequest struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Validate checks if the set request is valid.
func (r *SetCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, nameRules()...),
		validation.Field(&r.Type, validation.Required, validation.By(validType)),
		validation.Field(&r.Value, validation.Required),
	)
}

// ToValue decodes Value into the domain value for Type.
func (r *SetCredentialRequest) ToValue() (credentialDomain.Type, credentialDomain.CredentialValue, error) {
	t, err := credentialDomain.ParseType(r.Type)
	if err != nil {
		return "", nil, err
	}

	var value credentialDomain.CredentialValue
	switch t {
	case credentialDomain.TypePassword, credentialDomain.TypeValue:
		var s string
		err = json.Unmarshal(r.Value, &s)
		value = credentialDomain.StringValue(s)
	case credentialDomain.TypeJSON:
		var m map[string]any
		err = json.Unmarshal(r.Value, &m)
		if m == nil && err == nil {
			err = credentialDomain.ErrInvalidValue
		}
		value = credentialDomain.JSONValue(m)
	case credentialDomain.TypeUser:
		var u credentialDomain.UserValue
		err = json.Unmarshal(r.Value, &u)
		value = u
	case credentialDomain.TypeCertificate:
		var c credentialDomain.CertificateValue
		err = json.Unmarshal(r.Value, &c)
		value = c
	case credentialDomain.TypeRSA, credentialDomain.TypeSSH:
		var k credentialDomain.KeyPairValue
		err = json.Unmarshal(r.Value, &k)
		value = k
	}
	if err != nil {
		return "", nil, credentialDomain.ErrInvalidValue
	}
	return t, value, nil
}

// GenerationParametersRequest carries the parameters of every generatable type.
// Only the fields relevant to the requested type are read.
type GenerationParametersRequest struct {
	Length         int  `json:"length"`
	ExcludeLower   bool `json:"exclude_lower"`
	ExcludeUpper   bool `json:"exclude_upper"`
	ExcludeNumber  bool `json:"exclude_number"`
	IncludeSpecial bool `json:"include_special"`

	Username string `json:"username"`

	CommonName       string   `json:"common_name"`
	Organization     string   `json:"organization"`
	OrganizationUnit string   `json:"organization_unit"`
	Locality         string   `json:"locality"`
	State            string   `json:"state"`
	Country          string   `json:"country"`
	AlternativeNames []string `json:"alternative_names"`
	KeyUsage         []string `json:"key_usage"`
	ExtendedKeyUsage []string `json:"extended_key_usage"`
	CA               string   `json:"ca"`
	IsCA             bool     `json:"is_ca"`
	SelfSign         bool     `json:"self_sign"`
	// Duration is in days.
	Duration int `json:"duration"`

	KeyLength  int    `json:"key_length"`
	SSHComment string `json:"ssh_comment"`
}

// Validate checks value ranges shared by every type.
func (p GenerationParametersRequest) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Length, validation.Min(0)),
		validation.Field(&p.KeyLength, customValidation.KeyLength),
		validation.Field(&p.Duration, validation.Min(0), validation.Max(maxCertificateDurationDays)),
		validation.Field(&p.CA, validation.When(p.CA != "", customValidation.CredentialName)),
	)
}

// ToDomain returns the parameters for t. Types without parameters yield nil.
func (p *GenerationParametersRequest) ToDomain(t credentialDomain.Type) credentialDomain.GenerationParameters {
	password := credentialDomain.PasswordParameters{
		Length:         p.Length,
		ExcludeLower:   p.ExcludeLower,
		ExcludeUpper:   p.ExcludeUpper,
		ExcludeNumber:  p.ExcludeNumber,
		IncludeSpecial: p.IncludeSpecial,
	}

	switch t {
	case credentialDomain.TypePassword:
		return &password
	case credentialDomain.TypeUser:
		return &credentialDomain.UserParameters{Username: p.Username, PasswordParameters: password}
	case credentialDomain.TypeCertificate:
		return &credentialDomain.CertificateParameters{
			CommonName:       p.CommonName,
			Organization:     p.Organization,
			OrganizationUnit: p.OrganizationUnit,
			Locality:         p.Locality,
			State:            p.State,
			Country:          p.Country,
			AlternativeNames: p.AlternativeNames,
			KeyUsage:         p.KeyUsage,
			ExtendedKeyUsage: p.ExtendedKeyUsage,
			CaName:           p.CA,
			IsCA:             p.IsCA,
			SelfSign:         p.SelfSign,
			Duration:         time.Duration(p.Duration) * 24 * time.Hour,
			KeyLength:        p.KeyLength,
		}
	case credentialDomain.TypeRSA:
		return &credentialDomain.RSAParameters{KeyLength: p.KeyLength}
	case credentialDomain.TypeSSH:
		return &credentialDomain.SSHParameters{KeyLength: p.KeyLength, Comment: p.SSHComment}
	default:
		return nil
	}
}

// GenerateCredentialRequest asks the server to produce a value. An empty Mode keeps an
// existing credential untouched.
type GenerateCredentialRequest struct {
	Name       string                       `json:"name"`
	Type       string                       `json:"type"`
	Mode       string                       `json:"mode"`
	Parameters *GenerationParametersRequest `json:"parameters"`
}

// Validate checks if the generate request is valid.
func (r *GenerateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, nameRules()...),
		validation.Field(&r.Type, validation.Required, validation.By(validGeneratableType)),
		validation.Field(&r.Mode, validation.In(
			"",
			string(credentialDomain.ModeOverwrite),
			string(credentialDomain.ModeNoOverwrite),
		)),
		validation.Field(&r.Parameters),
	)
}

// ToGenerateRequest converts the request into the domain request.
func (r *GenerateCredentialRequest) ToGenerateRequest() (credentialDomain.GenerateRequest, error) {
	t, err := credentialDomain.ParseType(r.Type)
	if err != nil {
		return credentialDomain.GenerateRequest{}, err
	}

	mode := credentialDomain.ModeNoOverwrite
	if r.Mode == string(credentialDomain.ModeOverwrite) {
		mode = credentialDomain.ModeOverwrite
	}

	params := r.Parameters
	if params == nil {
		params = &GenerationParametersRequest{}
	}

	return credentialDomain.GenerateRequest{
		Name:       credentialDomain.NormalizeName(r.Name),
		Type:       t,
		Mode:       mode,
		Parameters: params.ToDomain(t),
	}, nil
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		customValidation.NotBlank,
		customValidation.CredentialName,
		validation.Length(1, 1024),
	}
}

func validType(value any) error {
	name, _ := value.(string)
	if _, err := credentialDomain.ParseType(name); err != nil {
		return validation.NewError(
			"validation_credential_type",
			"must be one of password, user, value, json, certificate, rsa, ssh",
		)
	}
	return nil
}

func validGeneratableType(value any) error {
	name, _ := value.(string)
	t, err := credentialDomain.ParseType(name)
	if err != nil || !t.Generatable() {
		return validation.NewError(
			"validation_generatable_type",
			"must be one of password, user, certificate, rsa, ssh",
		)
	}
	return nil
}
