package domain

import (
	"context"
	"encoding/json"
)

// ValueVersion stores an arbitrary string.
type ValueVersion struct {
	VersionBase
	value EncryptedField
}

// Type returns TypeValue.
func (v *ValueVersion) Type() Type {
	return TypeValue
}

// SetValue accepts a StringValue.
func (v *ValueVersion) SetValue(ctx context.Context, value CredentialValue) error {
	s, ok := value.(StringValue)
	if !ok {
		return ErrTypeMismatch
	}
	return v.value.Set(ctx, v.encryptor, []byte(s))
}

// Value decrypts the stored string.
func (v *ValueVersion) Value(ctx context.Context) (CredentialValue, error) {
	plaintext, err := v.value.Get(ctx, v.encryptor)
	if err != nil {
		return nil, err
	}
	return StringValue(plaintext), nil
}

// CopyInto copies the value and owner into dst.
func (v *ValueVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*ValueVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.value = v.value
	return nil
}

// JSONVersion stores a JSON object.
type JSONVersion struct {
	VersionBase
	value EncryptedField
}

// Type returns TypeJSON.
func (v *JSONVersion) Type() Type {
	return TypeJSON
}

// SetValue accepts a non-empty JSONValue.
func (v *JSONVersion) SetValue(ctx context.Context, value CredentialValue) error {
	doc, ok := value.(JSONValue)
	if !ok {
		return ErrTypeMismatch
	}
	if len(doc) == 0 {
		return ErrInvalidValue
	}
	return setJSON(ctx, &v.value, v.encryptor, doc)
}

// Value decrypts the stored document.
func (v *JSONVersion) Value(ctx context.Context) (CredentialValue, error) {
	plaintext, err := v.value.Get(ctx, v.encryptor)
	if err != nil {
		return nil, err
	}
	if plaintext == nil {
		return JSONValue(nil), nil
	}

	var doc JSONValue
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CopyInto copies the document and owner into dst.
func (v *JSONVersion) CopyInto(dst CredentialVersion) error {
	target, ok := dst.(*JSONVersion)
	if !ok {
		return ErrTypeMismatch
	}
	target.Credential = v.Credential
	target.value = v.value
	return nil
}
