package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

type formField struct {
	name, value string
}

type formFile struct {
	field, filename, contentType string
	data                         []byte
}

// Form is a multipart body, used for product images and the merchant logo.
// Parts are written in the order they were added.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form { return &Form{} }

func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

func (f *Form) File(field, filename, contentType string, data []byte) *Form {
	f.files = append(f.files, formFile{field, filename, contentType, data})
	return f
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := mw.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("gateway: form field %s: %w", fld.name, err)
		}
	}
	for _, fl := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fl.field, fl.filename))
		ct := fl.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("gateway: form file %s: %w", fl.field, err)
		}
		if _, err := part.Write(fl.data); err != nil {
			return nil, "", fmt.Errorf("gateway: form file %s: %w", fl.field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
