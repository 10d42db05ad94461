package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIgnoresCaseAndLayout(t *testing.T) {
	cases := []string{
		"Django and SQL",
		"sql, then DJANGO",
		"Worked on\nSQL\treporting with dJaNgO apps.",
	}
	for _, text := range cases {
		assert.Equal(t, []string{"django", "sql"}, Extract(text), text)
	}
}

func TestExtractReturnsVocabularyOrder(t *testing.T) {
	got := Extract("CSS, HTML, teamwork and Python")
	assert.Equal(t, []string{"python", "teamwork", "html", "css"}, got)
}

func TestExtractWholeWordsOnly(t *testing.T) {
	assert.Equal(t, []string{"javascript"}, Extract("Senior JavaScript engineer"))
	assert.Equal(t, []string{"java", "javascript"}, Extract("Java and JavaScript"))
	assert.Empty(t, Extract("mysql pythonic htmlx"))
}

func TestExtractMultiWordTerm(t *testing.T) {
	assert.Equal(t, []string{"python", "machine learning"}, Extract("Machine Learning with Python"))
	assert.Empty(t, Extract("machine-learned learning machines"))
}

func TestExtractEmptyText(t *testing.T) {
	got := Extract("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCustomVocabulary(t *testing.T) {
	e := NewExtractor([]string{" Go ", "", "C++"})
	assert.Equal(t, []string{"go"}, e.Extract("Go developer"))
	assert.Empty(t, e.Extract("golang"))
}

func TestExtractTreatsNonASCIILettersAsWordCharacters(t *testing.T) {
	for _, text := range []string{"pythonä", "éjava", "sqlñ", "ñhtml_", "css2"} {
		assert.Empty(t, Extract(text), text)
	}
	assert.Equal(t, []string{"python", "java"}, Extract("python·java"))
	assert.Equal(t, []string{"django", "sql"}, Extract("Compétences: Django, SQL."))
}
