package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Count int    `json:"count" validate:"gte=0"`
}

type selfValidating struct {
	called bool
}

func (s *selfValidating) Validate() error {
	s.called = true
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid", body: `{"email":"a@b.com","count":2}`},
		{name: "unknown fields ignored", body: `{"email":"a@b.com","extra":true}`},
		{name: "empty body", body: ``, wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"email":`, errText: "unexpected EOF"},
		{name: "two values", body: `{"email":"a@b.com"}{"email":"c@d.com"}`, errText: "single JSON value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
			var out sampleRequest

			err := DecodeJSON(req, &out)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, "a@b.com", out.Email)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Email: "a@b.com"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "not-an-email"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "a@b.com", Count: -1}))

	sv := &selfValidating{}
	assert.NoError(t, ValidateRequest(sv))
	assert.True(t, sv.called)
}
