package reflection

import (
	"fmt"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/render"
)

// Every variant names the pattern and ends in an open question.
var templates = map[domain.TriggerType][]string{
	domain.TriggerEmotion: {
		`Feeling {{ emotion }} has come up a few times this week. Does today feel similar?`,
		`You've mentioned feeling {{ emotion }} several times lately. Has this been building over the past few days?`,
		`{{ emotion | sentence }} keeps returning in what you've shared recently. Does this connect to what you mentioned a few days ago?`,
	},
	domain.TriggerContext: {
		`{{ context | sentence }} seems to come up for you often. What feels different today?`,
		`You've been reflecting on {{ context }} a lot recently. What keeps drawing you back to it?`,
	},
	domain.TriggerEscalation: {
		`Feeling {{ emotion }} seems to have been weighing more this week than last. How does that feel to notice?`,
		`Things have felt more intense lately, with {{ emotion }} coming up more often. What do you make of that?`,
	},
	domain.TriggerTimeBucket: {
		`Feeling {{ emotion }} has shown up in the {{ first_bucket }} and the {{ second_bucket }} this week. Does it feel like the same thread?`,
		`{{ emotion | sentence }} has been with you at different times of day lately. Does it feel connected?`,
	},
}

func templateKey(t domain.TriggerType, i int) string {
	return fmt.Sprintf("reflection.%s.%d", t, i)
}

func compileTemplates(engine *render.Engine) {
	for typ, variants := range templates {
		for i, src := range variants {
			engine.MustCompile(templateKey(typ, i), src)
		}
	}
}
