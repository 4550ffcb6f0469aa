package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/harvest"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is
	// listed in readme.md.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topicsInReadme []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if matches := topicRegex.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			topicsInReadme = append(topicsInReadme, strings.TrimSpace(matches[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range topicsInReadme {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() error = %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(topicsInReadme, topic) {
			t.Errorf("topic %q is not listed in docs/readme.md", topic)
		}
	}
	if len(all) != len(topicsInReadme) {
		t.Errorf("GetAllTopics() = %v, readme.md lists %v", all, topicsInReadme)
	}
}

func TestGetTopic(t *testing.T) {
	if _, err := GetTopic("nope"); err == nil {
		t.Errorf("GetTopic(%q) expected an error", "nope")
	}
	star, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) error = %v", err)
	}
	for _, title := range []string{"# Snapshot", "# Wash Sales", "# MinTax Selling"} {
		if !strings.Contains(star, title) {
			t.Errorf("GetTopic(*) does not contain %q", title)
		}
	}
}

// block is a fenced code block of a topic.
type block struct {
	lang    string
	content string
}

func codeBlocks(t *testing.T, file string) []block {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fcb, ok := n.(*ast.FencedCodeBlock); ok && fcb.Info != nil {
			var b strings.Builder
			for i := 0; i < fcb.Lines().Len(); i++ {
				line := fcb.Lines().At(i)
				b.Write(line.Value(content))
			}
			blocks = append(blocks, block{lang: string(fcb.Language(content)), content: b.String()})
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// TestCodeBlocks checks that the examples of the documentation are valid input.
func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			for _, b := range codeBlocks(t, file) {
				switch b.lang {
				case "jsonl":
					s, err := harvest.DecodeSnapshot(strings.NewReader(b.content))
					if err != nil {
						t.Errorf("invalid snapshot example: %v", err)
						continue
					}
					if len(s.Warnings) > 0 {
						t.Errorf("snapshot example has warnings: %v", s.Warnings)
					}
				case "yaml":
					var v map[string]any
					if err := yaml.Unmarshal([]byte(b.content), &v); err != nil {
						t.Errorf("invalid yaml example: %v", err)
					}
				}
			}
		})
	}
}
