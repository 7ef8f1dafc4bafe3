package httpsig

import (
	"testing"
	"time"

	"github.com/sage-x-project/httpsig/core/sfv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 — @method + my-field with sf.
func TestBuildSignatureBase_MethodAndStructuredField(t *testing.T) {
	ctx, err := NewMessageContext("post", "https://example.com/")
	require.NoError(t, err)
	ctx.RegisterFieldType("my-field", StructuredTypeItem)
	ctx.TargetHeaders.Add("my-field", "my-field-value")

	meta := NewSignatureMetadata()
	require.NoError(t, meta.Append(NewComponentIdentifier("@method", sfv.NewParams())))

	sfParams := sfv.NewParams()
	sfParams.Set("sf", sfv.Boolean(true))
	require.NoError(t, meta.Append(NewComponentIdentifier("my-field", sfParams)))
	meta.SetTag("my_tag")

	base, err := BuildSignatureBase(ctx, meta)
	require.NoError(t, err)
	assert.Equal(t, "\"@method\": POST\n\"my-field\";sf: my-field-value\n\"@signature-params\": (\"@method\" \"my-field\";sf);tag=\"my_tag\"", base)
}

// S2 — authority normalization.
func TestDerivedAuthority(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"https://WWW.EXAMPLE.COM:443", "www.example.com"},
		{"http://WWW.EXAMPLE.COM:8080", "www.example.com:8080"},
		{"https://UserInfo@WWW.EXAMPLE.COM", "UserInfo@www.example.com"},
	}
	for _, c := range cases {
		ctx, err := NewMessageContext("GET", c.uri)
		require.NoError(t, err)
		v, ok, err := resolveDerivedComponent(ctx, NewComponentIdentifier("@authority", sfv.NewParams()))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.want, v)
	}
}

// S3 — @query and @query-param percent-normalization.
func TestQueryParamNormalization(t *testing.T) {
	uri := `https://www.example.com/parameters?var=this%20is%20a%20big%0Amultiline%20value&bar=with+plus+whitespace&fa%C3%A7ade%22%3A%20=something`
	ctx, err := NewMessageContext("GET", uri)
	require.NoError(t, err)

	for _, c := range []struct {
		name string
		want string
	}{
		{"bar", "with%20plus%20whitespace"},
		{"var", "this%20is%20a%20big%0Amultiline%20value"},
		{`fa%C3%A7ade%22%3A%20`, "something"},
	} {
		params := sfv.NewParams()
		params.Set("name", sfv.String(c.name))
		v, ok, err := resolveDerivedComponent(ctx, NewComponentIdentifier("@query-param", params))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.want, v)
	}
}

// S4 — bs over multiple field values.
func TestByteSequenceModifier(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/")
	require.NoError(t, err)
	ctx.TargetHeaders.Add("example-header", "value, with, lots")
	ctx.TargetHeaders.Add("example-header", "of, commas")

	plain, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-header", sfv.NewParams()))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "value, with, lots, of, commas", plain)

	bsParams := sfv.NewParams()
	bsParams.Set("bs", sfv.Boolean(true))
	bs, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-header", bsParams))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `:dmFsdWUsIHdpdGgsIGxvdHM=:, :b2YsIGNvbW1hcw==:`, bs)
}

// S5 — key on a dictionary field.
func TestDictionaryKeyModifier(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/")
	require.NoError(t, err)
	ctx.TargetHeaders.Add("example-dict", "a=1, b=2;x=1;y=2, c=(a   b    c), d")

	for _, c := range []struct {
		key  string
		want string
	}{
		{"a", "1"},
		{"b", "2;x=1;y=2"},
		{"c", "(a b c)"},
		{"d", "?1"},
	} {
		params := sfv.NewParams()
		params.Set("key", sfv.String(c.key))
		v, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-dict", params))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, c.want, v)
	}
}

// S5c — obs-fold unfolding and OWS trimming happen before bs/sf/key
// modifiers run, not just on the plain-join path.
func TestObsFoldCanonicalizationBeforeModifiers(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/")
	require.NoError(t, err)
	ctx.RegisterFieldType("example-item", StructuredTypeItem)

	ctx.TargetHeaders.Add("example-header", "value\r\n with, fold")
	bsParams := sfv.NewParams()
	bsParams.Set("bs", sfv.Boolean(true))
	bs, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-header", bsParams))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `:dmFsdWUgd2l0aCwgZm9sZA==:`, bs)

	ctx.TargetHeaders.Add("example-item", "\r\n 42 ")
	sfParams := sfv.NewParams()
	sfParams.Set("sf", sfv.Boolean(true))
	sf, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-item", sfParams))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "42", sf)

	ctx.TargetHeaders.Add("example-dict2", "a=1\r\n ")
	keyParams := sfv.NewParams()
	keyParams.Set("key", sfv.String("a"))
	key, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("example-dict2", keyParams))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", key)
}

// S6 — parse-failure cases.
func TestComponentIdentifierValidationFailures(t *testing.T) {
	cases := []string{
		`"MyField"`,
		`"@unknown"`,
		`"@query-param"`,
		`"@signature-params"`,
	}
	for _, c := range cases {
		_, err := ParseComponentIdentifier(c)
		assert.Error(t, err, c)
	}

	bsAndSF := sfv.NewParams()
	bsAndSF.Set("bs", sfv.Boolean(true))
	bsAndSF.Set("sf", sfv.Boolean(true))
	assert.Error(t, NewComponentIdentifier("my-field", bsAndSF).Validate())

	bsAndKey := sfv.NewParams()
	bsAndKey.Set("bs", sfv.Boolean(true))
	bsAndKey.Set("key", sfv.String("x"))
	assert.Error(t, NewComponentIdentifier("my-field", bsAndKey).Validate())
}

// stubKeyPair is a fixed-size XOR "signature" scheme used only to
// exercise the Signer/Verifier boundary without pulling in a real
// algorithm — joseref supplies the production implementations.
type stubKeyPair struct {
	alg string
	key byte
}

func (k stubKeyPair) Algorithm() string { return k.alg }

func (k stubKeyPair) Sign(base []byte) ([]byte, error) {
	out := make([]byte, len(base))
	for i, b := range base {
		out[i] = b ^ k.key
	}
	return out, nil
}

func (k stubKeyPair) Verify(base, signature []byte) error {
	want, _ := k.Sign(base)
	if len(want) != len(signature) {
		return &ValidationError{Detail: "signature length mismatch"}
	}
	for i := range want {
		if want[i] != signature[i] {
			return &ValidationError{Detail: "signature mismatch"}
		}
	}
	return nil
}

// S7 — round-trip sign/verify.
func TestSignVerifyRoundTrip(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/foo")
	require.NoError(t, err)

	meta := NewSignatureMetadata()
	require.NoError(t, meta.Append(NewComponentIdentifier("@method", sfv.NewParams())))
	require.NoError(t, meta.Append(NewComponentIdentifier("@authority", sfv.NewParams())))

	kp := stubKeyPair{alg: "test-xor", key: 0x5A}

	si, sf, err := Sign(ctx, "sig1", meta, kp)
	require.NoError(t, err)

	err = Verify(ctx, "sig1", si, sf, kp)
	require.NoError(t, err)

	tampered := NewSignature()
	raw, _ := sf.Get("sig1")
	flipped := append([]byte(nil), raw...)
	flipped[0] ^= 0x01
	tampered.Set("sig1", flipped)
	err = Verify(ctx, "sig1", si, tampered, kp)
	assert.Error(t, err)

	otherCtx, err := NewMessageContext("POST", "https://example.com/foo")
	require.NoError(t, err)
	err = Verify(otherCtx, "sig1", si, sf, kp)
	assert.Error(t, err)
}

func TestSignatureInputSerializeParseRoundTrip(t *testing.T) {
	meta := NewSignatureMetadata()
	require.NoError(t, meta.Append(NewComponentIdentifier("@method", sfv.NewParams())))
	meta.SetKeyID("test-key")
	meta.SetAlgorithm("ed25519")
	meta.SetCreated(time.Unix(1618884475, 0))

	si := NewSignatureInput()
	si.Set("sig1", meta)

	out, err := si.Serialize()
	require.NoError(t, err)

	parsed, err := ParseSignatureInput(out)
	require.NoError(t, err)
	got, ok := parsed.Get("sig1")
	require.True(t, ok)
	alg, _ := got.Algorithm()
	assert.Equal(t, "ed25519", alg)

	out2, err := parsed.Serialize()
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestComponentIdentifierEqualityIgnoresParamOrder(t *testing.T) {
	p1 := sfv.NewParams()
	p1.Set("foo", sfv.Boolean(true))
	p1.Set("baz", sfv.Boolean(true))

	p2 := sfv.NewParams()
	p2.Set("baz", sfv.Boolean(true))
	p2.Set("foo", sfv.Boolean(true))

	a := NewComponentIdentifier("x", p1)
	b := NewComponentIdentifier("x", p2)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.CanonicalKey(), b.CanonicalKey())

	sa, err := a.Serialize()
	require.NoError(t, err)
	sb, err := b.Serialize()
	require.NoError(t, err)
	assert.NotEqual(t, sa, sb)
}

func TestAbsentNormalFieldIsEmptyString(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/")
	require.NoError(t, err)

	v, ok, err := resolveNormalComponent(ctx, NewComponentIdentifier("missing-field", sfv.NewParams()))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", v)

	keyParams := sfv.NewParams()
	keyParams.Set("key", sfv.String("a"))
	_, _, err = resolveNormalComponent(ctx, NewComponentIdentifier("missing-field", keyParams))
	assert.Error(t, err)
}

func TestAbsentDerivedFailsBuild(t *testing.T) {
	ctx, err := NewMessageContext("GET", "https://example.com/")
	require.NoError(t, err)

	meta := NewSignatureMetadata()
	require.NoError(t, meta.Append(NewComponentIdentifier("@status", sfv.NewParams())))

	_, err = BuildSignatureBase(ctx, meta)
	assert.Error(t, err)
}
