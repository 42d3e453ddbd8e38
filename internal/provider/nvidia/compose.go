package nvidia

import (
	"strings"

	"github.com/samber/lo"
)

// sceneDelimiter separates the subject clause from the scene clause.
const sceneDelimiter = " in "

// Fallbacks used when the prompt names no scene.
const (
	DefaultScene       = "in a beautiful setting"
	DefaultAltScene    = "in an artistic environment"
	DefaultStylePrompt = "A photo of"
)

var stopwords = []string{"a", "an", "the", "in", "on", "at", "by", "with"}

// Composition is a prompt split into the subject/scene form Consistory expects.
type Composition struct {
	Subject       string
	Scene         string
	SubjectTokens []string
	// HasScene is false when Scene holds DefaultScene.
	HasScene bool
}

// Decompose splits prompt at the first " in " into a subject and a scene.
// Subject tokens are the subject's words minus articles and prepositions.
func Decompose(prompt string) Composition {
	subject, scene, found := strings.Cut(prompt, sceneDelimiter)
	if strings.TrimSpace(subject) == "" {
		subject = prompt
	}
	scene = strings.TrimSpace(scene)

	c := Composition{
		Subject: subject,
		SubjectTokens: lo.Filter(strings.Fields(subject), func(word string, _ int) bool {
			return !lo.Contains(stopwords, strings.ToLower(word))
		}),
		HasScene: found && scene != "",
	}
	c.Scene = lo.Ternary(c.HasScene, scene, DefaultScene)
	return c
}

// AltScene returns the second scene prompt sent alongside Scene.
func (c Composition) AltScene() string {
	return lo.Ternary(c.HasScene, "in "+c.Scene, DefaultAltScene)
}
