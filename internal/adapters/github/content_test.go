package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain ascii",
		`{"schedule":{"21HR":{"Mon":{"1":"国語","2":"数学"}}}}`,
		"emoji 📚 and accents éà",
	}
	for _, input := range inputs {
		encoded := EncodeContent([]byte(input))
		decoded, err := DecodeContent(encoded)
		require.NoError(t, err)
		assert.Equal(t, []byte(input), decoded)
	}
}

func TestDecodeContentIgnoresLineBreaks(t *testing.T) {
	encoded := EncodeContent([]byte("国語 数学 英語 理科 社会 体育 情報 芸術 総合"))
	wrapped := encoded[:20] + "\n" + encoded[20:40] + "\r\n" + encoded[40:]

	decoded, err := DecodeContent(wrapped)
	require.NoError(t, err)
	assert.Equal(t, "国語 数学 英語 理科 社会 体育 情報 芸術 総合", string(decoded))
}

func TestDecodeContentRejectsGarbage(t *testing.T) {
	_, err := DecodeContent("not base64!")
	assert.Error(t, err)
}
