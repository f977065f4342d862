package assistant

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	k, err := DefaultKnowledge()
	require.NoError(t, err)
	d, err := NewDetector(k)
	require.NoError(t, err)
	return d
}

func TestDetector_Detect(t *testing.T) {
	d := newTestDetector(t)

	tests := []struct {
		name string
		text string
		want Language
	}{
		{"empty", "", English},
		{"plain english", "I have a headache", English},
		{"tamil script", "எனக்கு தலைவலி", Tamil},
		{"devanagari script", "मुझे सिरदर्द है", Hindi},
		{"tamil wins over devanagari", "सिर தலைவலி", Tamil},
		{"script wins over keywords", "hola मुझे बुखार है", Hindi},
		{"romanized hindi", "mujhe bukhar hai", Hindi},
		{"romanized tamil", "enakku kaichal irukku", Tamil},
		{"french keyword", "j'ai de la fievre", French},
		{"spanish keyword", "tengo fiebre", Spanish},
		{"german keyword", "ich habe Fieber", German},
		{"keyword is whole word only", "the dardanelles", English},
		{"french accent", "très fatigué", French},
		{"spanish accent", "el niño", Spanish},
		{"german accent", "Straße", German},
		{"english with digits", "took 2 pills at 10:30", English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Detect(tt.text))
		})
	}
}

func TestDetector_AlwaysReturnsSupportedLanguage(t *testing.T) {
	d := newTestDetector(t)
	rng := rand.New(rand.NewSource(7))

	ranges := [][2]rune{
		{0x20, 0x7e},     // ASCII
		{0xc0, 0x17f},    // Latin-1 and Latin Extended-A
		{0x900, 0x97f},   // Devanagari
		{0xb80, 0xbff},   // Tamil
		{0x4e00, 0x4fff}, // CJK
		{0x1f300, 0x1f5ff},
	}

	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		runes := make([]rune, n)
		for j := range runes {
			r := ranges[rng.Intn(len(ranges))]
			runes[j] = r[0] + rune(rng.Intn(int(r[1]-r[0]+1)))
		}
		got := d.Detect(string(runes))
		assert.True(t, got.Valid(), "input %q gave %q", string(runes), got)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := map[string]Language{
		"hi":        Hindi,
		"TA":        Tamil,
		"ta-IN":     Tamil,
		"fr-CA":     French,
		" es ":      Spanish,
		"de":        German,
		"en-GB":     English,
		"ja":        English,
		"":          English,
		"not a tag": English,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLanguage(in), "input %q", in)
	}
}
