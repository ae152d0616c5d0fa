package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username:    "  alice  ",
		Password:    "  pass1234  ",
		DisplayName: " Alice Nguyen ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "pass1234", req.Password)
	assert.Equal(t, "Alice Nguyen", req.DisplayName)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterRequest{
		Username:    "bob",
		Password:    "password123",
		DisplayName: "shop <script>alert('x')</script>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.DisplayName, "&lt;script&gt;")
	assert.NotContains(t, req.DisplayName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	url := "  https://example.com/webhook  "
	req := RegisterRequest{
		Username:    "bob",
		Password:    "password123",
		DisplayName: "Bob Shop",
		WebhookURL:  &url,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "https://example.com/webhook", *req.WebhookURL)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := RegisterRequest{
		Username:    "carol",
		Password:    "password123",
		DisplayName: "Carol Shop",
		WebhookURL:  nil,
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.WebhookURL)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

func TestSanitizeStruct_TransferRequest(t *testing.T) {
	req := TransferRequest{
		Recipient:   "  8f7b8b2e-a514-4b21-b5b7-0d5f0a4e9c11  ",
		Amount:      25,
		ReferenceID: "  ref-001  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "8f7b8b2e-a514-4b21-b5b7-0d5f0a4e9c11", req.Recipient)
	assert.Equal(t, "ref-001", req.ReferenceID)
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"ref-001",
		"REF_002",
		"a.b.c",
		"simple123",
		"ABC-def_GHI.123",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"ref 001",     // space
		"ref<001>",    // angle brackets
		"ref;DROP",    // semicolon
		"",            // empty
		"hello world", // space
		"ref\n001",    // newline
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
