package principal_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/pkg/principal"
)

func TestDecode_UserDetailsConEmail(t *testing.T) {
	h, err := principal.Encode(principal.ClientPrincipal{IdentityProvider: "aad", UserDetails: "ana@site.com"})
	require.NoError(t, err)

	p, err := principal.Decode(h)
	require.NoError(t, err)
	email, err := p.Email()
	require.NoError(t, err)
	assert.Equal(t, "ana@site.com", email)
}

func TestEmail_OrdenDeClaims(t *testing.T) {
	cases := []struct {
		name   string
		claims []principal.Claim
		want   string
	}{
		{"email genérico", []principal.Claim{{Typ: "email", Val: "a@x.com"}}, "a@x.com"},
		{"emailaddress AAD", []principal.Claim{{Typ: "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress", Val: "b@x.com"}}, "b@x.com"},
		{"upn con arroba", []principal.Claim{{Type: "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/upn", Value: "c@x.com"}}, "c@x.com"},
		{"primer claim gana", []principal.Claim{{Typ: "name", Val: "Ana"}, {Typ: "upn/upn", Val: "d@x.com"}, {Typ: "email", Val: "e@x.com"}}, "d@x.com"},
		{"vacíos se saltan", []principal.Claim{{Typ: "email", Val: ""}, {Typ: "preferred_email", Val: "f@x.com"}}, "f@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &principal.ClientPrincipal{UserDetails: "Ana Pérez", Claims: tc.claims}
			got, err := p.Email()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEmail_UPNSinArrobaNoSirve(t *testing.T) {
	p := &principal.ClientPrincipal{Claims: []principal.Claim{{Typ: "x/upn", Val: "ANA-PC\\ana"}}}
	_, err := p.Email()
	assert.ErrorIs(t, err, principal.ErrNoEmail)
}

func TestDecode_Errores(t *testing.T) {
	_, err := principal.Decode("")
	assert.Error(t, err)

	_, err = principal.Decode("%%%")
	assert.Error(t, err)

	_, err = principal.Decode(base64.StdEncoding.EncodeToString([]byte("not json")))
	assert.Error(t, err)
}

func TestDecode_SinPadding(t *testing.T) {
	h := base64.RawStdEncoding.EncodeToString([]byte(`{"userDetails":"z@x.com"}`))
	p, err := principal.Decode(h)
	require.NoError(t, err)
	email, _ := p.Email()
	assert.Equal(t, "z@x.com", email)
}

func TestName(t *testing.T) {
	p := &principal.ClientPrincipal{Claims: []principal.Claim{{Typ: "name", Val: " Ana "}}}
	assert.Equal(t, "Ana", p.Name())
}
