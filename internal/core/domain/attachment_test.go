package domain

import "testing"

func TestInferAttachmentKind(t *testing.T) {
	cases := map[string]AttachmentKind{
		"https://res.cloudinary.com/demo/image/upload/v1/a.JPG":    AttachmentImage,
		"https://cdn.example.com/banner.webp?width=400":            AttachmentImage,
		"https://res.cloudinary.com/demo/raw/upload/v1/policy.pdf": AttachmentPDF,
		"https://cdn.example.com/files/policy.pdf#page=2":          AttachmentPDF,
		"https://drive.example.com/open?id=abc":                    AttachmentLink,
		"https://cdn.example.com/pdf-guide/readme":                 AttachmentLink,
	}
	for url, want := range cases {
		if got := InferAttachmentKind(url); got != want {
			t.Errorf("%s: expected %s, got %s", url, want, got)
		}
	}
}

func TestIsAllowedAttachmentType(t *testing.T) {
	for _, m := range []string{MIMEJPEG, MIMEPNG, MIMEPDF} {
		if !IsAllowedAttachmentType(m) {
			t.Errorf("%s must be allowed", m)
		}
	}
	if IsAllowedAttachmentType("image/gif") || IsAllowedAttachmentType("text/plain") {
		t.Fatal("only jpeg, png and pdf are allowed")
	}
}

func TestBackendError_UserMessage(t *testing.T) {
	if (&BackendError{Status: 400, Message: "Email already exists"}).UserMessage() != "Email already exists" {
		t.Fatal("expected backend message")
	}
	if (&BackendError{Status: 0, Message: "dial tcp: refused"}).UserMessage() != GenericFailureMessage {
		t.Fatal("transport failures must use the generic message")
	}
}

func TestNormalizeRole(t *testing.T) {
	if NormalizeRole(" ADMIN ") != RoleAdmin {
		t.Fatal("roles compare case-insensitively")
	}
}
