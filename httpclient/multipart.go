package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBody is a multipart/form-data request body.
type MultipartBody struct {
	// Fields are simple form fields, written in order before any file.
	Fields []FormField
	Files  []FileField
}

// FormField is a text part.
type FormField struct {
	Name  string
	Value string
}

// FileField is a file part. Reader is used when set, Data otherwise.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string // defaults to application/octet-stream
	Data        []byte
	Reader      io.Reader
}

// AddField appends a text part.
func (m *MultipartBody) AddField(name, value string) *MultipartBody {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
	return m
}

// AddFile appends a file part read from r.
func (m *MultipartBody) AddFile(fieldName, fileName, contentType string, r io.Reader) *MultipartBody {
	m.Files = append(m.Files, FileField{FieldName: fieldName, FileName: fileName, ContentType: contentType, Reader: r})
	return m
}

// encode buffers the whole body so the request carries a Content-Length.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.FieldName), escapeQuotes(f.FileName)))
		header.Set("Content-Type", ct)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		src := f.Reader
		if src == nil {
			src = bytes.NewReader(f.Data)
		}
		if _, err := io.Copy(part, src); err != nil {
			return nil, "", fmt.Errorf("copy file part %s: %w", f.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
