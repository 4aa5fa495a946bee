package domain

import (
	"context"
)

// PasswordVersion stores a password and, when generated, its generation parameters.
type PasswordVersion struct {
	VersionBase
	password   EncryptedField
	parameters EncryptedField
}

// Type returns TypePassword.
func (v *PasswordVersion) Type() Type {
	return TypePassword
}

// SetPassword encrypts password unless it is already stored under the active key.
func (v *PasswordVersion) SetPassword(ctx context.Context, password string) error {
	return v.password.Set(ctx, v.encryptor, []byte(password))
}

// Password decrypts the stored password.
func (v *PasswordVersion) Password(ctx context.Context) (string, error) {
	plaintext, err := v.password.Get(ctx, v.encryptor)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// SetValue accepts a StringValue.
func (v *PasswordVersion) SetValue(ctx context.Context, value CredentialValue) error {
	password, ok := value.(StringValue)
	if !ok {
		return ErrTypeMismatch
	}
	return v.SetPassword(ctx, string(password))
}

// Value returns the password as a StringValue.
func (v *PasswordVersion) Value(ctx context.Context) (CredentialValue, error) {
	password, err := v.Password(ctx)
	if err != nil {
		return nil, err
	}
	return StringValue(password), nil
}

// SetParameters stores encrypted generation parameters; nil clears them.
func (v *PasswordVersion) SetParameters(ctx context.Context, params GenerationParameters) error {
	if params == nil {
		v.parameters.Clear()
		return nil
	}
	p, ok := params.(*PasswordParameters)
	if !ok {
		return ErrTypeMismatch
	}
	return setJSON(ctx, &v.parameters, v.encryptor, p)
}

// Parameters returns the stored generation parameters, or nil for a set password.
func (v *PasswordVersion) Parameters(ctx context.Context) (GenerationParameters, error) {
	var params PasswordParameters
	found, err := getJSON(ctx, &v.parameters, v.encryptor, &params)
	if err != nil || !found {
		return nil, err
	}
	return &params, nil
}

// CopyInto copies password, parameters and owner into dst.
func (v *PasswordVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*PasswordVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.password = v.password
	target.parameters = v.parameters
	return nil
}

// UserVersion stores a username in the clear and an encrypted password.
type UserVersion struct {
	VersionBase
	username   string
	password   EncryptedField
	parameters EncryptedField
}

// Type returns TypeUser.
func (v *UserVersion) Type() Type {
	return TypeUser
}

// Username returns the plain username.
func (v *UserVersion) Username() string {
	return v.username
}

// SetValue accepts a UserValue.
func (v *UserVersion) SetValue(ctx context.Context, value CredentialValue) error {
	user, ok := value.(UserValue)
	if !ok {
		return ErrTypeMismatch
	}
	if err := v.password.Set(ctx, v.encryptor, []byte(user.Password)); err != nil {
		return err
	}
	v.username = user.Username
	return nil
}

// Value decrypts the password into a UserValue.
func (v *UserVersion) Value(ctx context.Context) (CredentialValue, error) {
	password, err := v.password.Get(ctx, v.encryptor)
	if err != nil {
		return nil, err
	}
	return UserValue{Username: v.username, Password: string(password)}, nil
}

// SetParameters stores the password part of params; nil clears them.
func (v *UserVersion) SetParameters(ctx context.Context, params GenerationParameters) error {
	var passwordParams PasswordParameters
	switch p := params.(type) {
	case nil:
		v.parameters.Clear()
		return nil
	case *UserParameters:
		passwordParams = p.PasswordParameters
	case *PasswordParameters:
		passwordParams = *p
	default:
		return ErrTypeMismatch
	}
	return setJSON(ctx, &v.parameters, v.encryptor, &passwordParams)
}

// Parameters returns UserParameters carrying the stored username.
func (v *UserVersion) Parameters(ctx context.Context) (GenerationParameters, error) {
	var params PasswordParameters
	found, err := getJSON(ctx, &v.parameters, v.encryptor, &params)
	if err != nil || !found {
		return nil, err
	}
	return &UserParameters{Username: v.username, PasswordParameters: params}, nil
}

// CopyInto copies username, password, parameters and owner into dst.
func (v *UserVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*UserVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.username = v.username
	target.password = v.password
	target.parameters = v.parameters
	return nil
}
