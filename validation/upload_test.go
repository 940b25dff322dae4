package validation

import (
	"net/http"
	"slices"
	"testing"

	apperrors "github.com/kbukum/asrgateway/errors"
	"github.com/kbukum/asrgateway/util"
)

func gated() UploadRules {
	return UploadRules{
		MaxBytes:            100,
		APIKey:              "secret-key",
		AllowedContentTypes: DefaultAllowedContentTypes(),
	}
}

func TestCheck_Precedence(t *testing.T) {
	wav := &File{ContentType: "audio/wav", SizeBytes: 10}

	tests := []struct {
		name   string
		rules  UploadRules
		key    *string
		file   *File
		code   apperrors.ErrorCode
		status int
	}{
		{"valid", gated(), util.Ptr("secret-key"), wav, "", 0},
		{"missing key", gated(), nil, wav, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"blank key", gated(), util.Ptr("  "), wav, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"wrong key", gated(), util.Ptr("secret-KEY"), wav, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"auth wins over missing file", gated(), util.Ptr("nope"), nil, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"auth wins over size", gated(), nil, &File{ContentType: "text/plain", SizeBytes: 1000}, apperrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{"no file", gated(), util.Ptr("secret-key"), nil, apperrors.ErrCodeMissingFile, http.StatusBadRequest},
		{"empty file", gated(), util.Ptr("secret-key"), &File{ContentType: "audio/wav"}, apperrors.ErrCodeMissingFile, http.StatusBadRequest},
		{"too large", gated(), util.Ptr("secret-key"), &File{ContentType: "audio/wav", SizeBytes: 101}, apperrors.ErrCodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{"size wins over type", gated(), util.Ptr("secret-key"), &File{ContentType: "text/plain", SizeBytes: 101}, apperrors.ErrCodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{"exactly max", gated(), util.Ptr("secret-key"), &File{ContentType: "audio/wav", SizeBytes: 100}, "", 0},
		{"bad type", gated(), util.Ptr("secret-key"), &File{ContentType: "text/plain", SizeBytes: 5}, apperrors.ErrCodeInvalidAudioFormat, http.StatusBadRequest},
		{"absent type falls back to octet-stream", gated(), util.Ptr("secret-key"), &File{SizeBytes: 5}, "", 0},
		{"open mode ignores key", UploadRules{MaxBytes: 100, AllowedContentTypes: DefaultAllowedContentTypes()}, nil, wav, "", 0},
		{"open mode with any key", UploadRules{MaxBytes: 100, AllowedContentTypes: DefaultAllowedContentTypes()}, util.Ptr("whatever"), wav, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rules.Check(tt.key, tt.file)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected %s, got nil", tt.code)
			}
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s", err.Code, tt.code)
			}
			if err.HTTPStatus != tt.status {
				t.Errorf("status = %d, want %d", err.HTTPStatus, tt.status)
			}
		})
	}
}

func TestCheck_FileTooLargeDetails(t *testing.T) {
	err := gated().Check(util.Ptr("secret-key"), &File{ContentType: "audio/wav", SizeBytes: 250})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Details["maxBytes"] != int64(100) {
		t.Errorf("maxBytes = %v", err.Details["maxBytes"])
	}
	if err.Details["actualBytes"] != int64(250) {
		t.Errorf("actualBytes = %v", err.Details["actualBytes"])
	}
}

func TestCheck_InvalidFormatDetailsSorted(t *testing.T) {
	rules := UploadRules{MaxBytes: 100, AllowedContentTypes: []string{"audio/wav", "audio/mpeg", "application/octet-stream"}}
	err := rules.Check(nil, &File{ContentType: "video/mp4", SizeBytes: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	allowed, ok := err.Details["allowed"].([]string)
	if !ok {
		t.Fatalf("allowed detail has type %T", err.Details["allowed"])
	}
	want := []string{"application/octet-stream", "audio/mpeg", "audio/wav"}
	if !slices.Equal(allowed, want) {
		t.Errorf("allowed = %v, want %v", allowed, want)
	}
	if rules.AllowedContentTypes[0] != "audio/wav" {
		t.Error("configured list must not be reordered")
	}
}

func TestCheck_OctetStreamNotAllowed(t *testing.T) {
	rules := UploadRules{MaxBytes: 100, AllowedContentTypes: []string{"audio/wav"}}
	err := rules.Check(nil, &File{SizeBytes: 1})
	if err == nil || err.Code != apperrors.ErrCodeInvalidAudioFormat {
		t.Fatalf("expected INVALID_AUDIO_FORMAT, got %v", err)
	}
}

func TestCheck_DetailsNeverHoldKey(t *testing.T) {
	err := gated().Check(util.Ptr("wrong"), nil)
	for k, v := range err.Details {
		if s, ok := v.(string); ok && (s == "secret-key" || s == "wrong") {
			t.Errorf("detail %s leaks a key", k)
		}
	}
}

func TestResolveContentType(t *testing.T) {
	if got := ResolveContentType(""); got != DefaultContentType {
		t.Errorf("got %q", got)
	}
	if got := ResolveContentType("audio/wav"); got != "audio/wav" {
		t.Errorf("got %q", got)
	}
}

func TestOpenMode(t *testing.T) {
	if !(UploadRules{APIKey: " "}).OpenMode() {
		t.Error("blank key should be open mode")
	}
	if gated().OpenMode() {
		t.Error("configured key should not be open mode")
	}
}
