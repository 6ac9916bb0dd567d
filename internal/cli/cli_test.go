package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
)

func TestParseRewardArgs(t *testing.T) {
	got, err := parseRewardArgs([]string{"pricing=1", " header = 0.5 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"pricing": 1, "header": 0.5}, got)

	for _, bad := range [][]string{{"pricing"}, {"=1"}, {"pricing=abc"}, {"a=1", "a=2"}} {
		_, err := parseRewardArgs(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrintArms_SortedByScore(t *testing.T) {
	arms := []domain.ArmScore{
		{BanditArm: domain.BanditArm{Section: "header", Pulls: 4, Reward: 1}, Score: 0.9},
		{BanditArm: domain.BanditArm{Section: "pricing", Pulls: 2, Reward: 2}, Score: 2.1},
	}

	var buf bytes.Buffer
	require.NoError(t, printArms(&buf, arms, false))

	out := buf.String()
	assert.Less(t, strings.Index(out, "pricing"), strings.Index(out, "header"))
	assert.Contains(t, out, "0.250")
	assert.Equal(t, "header", arms[0].Section, "input order untouched")
}

func TestPrintArms_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printArms(&buf, nil, false))
	assert.Contains(t, buf.String(), "No arms yet")
}

func TestPrintPages_TruncatesAndHidesHTML(t *testing.T) {
	pages := []domain.LandingPage{{
		ID:        1,
		Name:      "home",
		GlobalCSS: strings.Repeat("a", 50),
		Sections:  []domain.LandingSection{{Key: "header", HTML: "<h1>hello</h1>", CSS: "h1 {\n color: red;\n}"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, printPages(&buf, pages, pageOptions{truncate: 10}))
	out := buf.String()
	assert.Contains(t, out, strings.Repeat("a", 10)+"...")
	assert.NotContains(t, out, "<h1>")
	assert.Contains(t, out, "css: h1 { colo...")

	buf.Reset()
	require.NoError(t, printPages(&buf, pages, pageOptions{json: true, showHTML: true}))
	var decoded []domain.LandingPage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "<h1>hello</h1>", decoded[0].Sections[0].HTML)
	assert.Equal(t, "h1 {\n color: red;\n}", pages[0].Sections[0].CSS, "input untouched")
}
