package sfv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemRoundTrip(t *testing.T) {
	cases := []string{
		`"test-key-rsa-pss"`,
		`42`,
		`-42`,
		`4.5`,
		`?1`,
		`?0`,
		`:aGVsbG8=:`,
		`a-token`,
		`"@method";sf`,
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			item, err := ParseItem(c)
			require.NoError(t, err)
			out, err := SerializeItem(item)
			require.NoError(t, err)
			assert.Equal(t, c, out)
		})
	}
}

func TestParseDictionaryBoolShorthand(t *testing.T) {
	d, err := ParseDictionary(`a=1, b=2;x=1;y=2, c=(a b c), d`)
	require.NoError(t, err)

	a, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, Item{Value: Integer(1), Params: NewParams()}, a)

	dv, ok := d.Get("d")
	require.True(t, ok)
	item, ok := dv.(Item)
	require.True(t, ok)
	assert.Equal(t, Boolean(true), item.Value)

	out, err := SerializeDictionary(d)
	require.NoError(t, err)
	assert.Equal(t, `a=1, b=2;x=1;y=2, c=(a b c), d`, out)
}

func TestParseInnerListWithCollapsedWhitespace(t *testing.T) {
	d, err := ParseDictionary(`c=(a   b    c)`)
	require.NoError(t, err)
	out, err := SerializeDictionary(d)
	require.NoError(t, err)
	assert.Equal(t, `c=(a b c)`, out)
}

func TestParseSignatureInputShapedDictionary(t *testing.T) {
	raw := `sig1=("@method" "@authority" "content-digest");created=1618884475;keyid="test-key-rsa-pss";alg="rsa-pss-sha512"`
	d, err := ParseDictionary(raw)
	require.NoError(t, err)

	m, ok := d.Get("sig1")
	require.True(t, ok)
	il, ok := m.(InnerList)
	require.True(t, ok)
	require.Len(t, il.Items, 3)
	assert.Equal(t, String("@method"), il.Items[0].Value)

	created, ok := il.Params.Get("created")
	require.True(t, ok)
	assert.Equal(t, Integer(1618884475), created)

	out, err := SerializeDictionary(d)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestParseByteSequenceDictionary(t *testing.T) {
	raw := `sig1=:K2qGT5srn2OGbOIDzQ6kYT+ruaycnDAAUpKv+ePFfD0RAxn/1BUeZiH5j7wnKFFBtnjFs6+Y6FdQBA58LWY5Ow==:`
	d, err := ParseDictionary(raw)
	require.NoError(t, err)
	m, ok := d.Get("sig1")
	require.True(t, ok)
	item, ok := m.(Item)
	require.True(t, ok)
	_, ok = item.Value.(ByteSequence)
	require.True(t, ok)

	out, err := SerializeDictionary(d)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestStringEscaping(t *testing.T) {
	item, err := ParseItem(`"a \"quoted\" \\value"`)
	require.NoError(t, err)
	assert.Equal(t, String(`a "quoted" \value`), item.Value)

	out, err := SerializeItem(item)
	require.NoError(t, err)
	assert.Equal(t, `"a \"quoted\" \\value"`, out)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseItem(`"unterminated`)
	assert.Error(t, err)

	_, err = ParseDictionary(`a=1,`)
	assert.Error(t, err)

	_, err = ParseItem(`1.2345`)
	assert.Error(t, err)
}

func TestDecimalRoundTrip(t *testing.T) {
	item, err := ParseItem(`1.5`)
	require.NoError(t, err)
	out, err := SerializeItem(item)
	require.NoError(t, err)
	assert.Equal(t, `1.5`, out)
}
