package bucket

import (
	"regexp"

	"github.com/mendapp/mend/internal/domain"
)

// Strength is the class of a keyword cue.
type Strength string

const (
	Strong     Strength = "strong"
	Supporting Strength = "supporting"
)

// Rule is one keyword cue for a bucket.
type Rule struct {
	Bucket   domain.Bucket
	Strength Strength
	Pattern  *regexp.Regexp
}

func rule(b domain.Bucket, s Strength, expr string) Rule {
	return Rule{Bucket: b, Strength: s, Pattern: regexp.MustCompile(`(?i)` + expr)}
}

// DefaultRules are the shipped cues, matched against the lower-cased message.
var DefaultRules = []Rule{
	rule(domain.BucketVenting, Strong, `i (just )?need to (let|get) (this|it) out|vent|scream|ugh|frustrated|angry|furious|sick of`),
	rule(domain.BucketVenting, Supporting, `can't take|had enough|exhausted|done with`),

	rule(domain.BucketReassurance, Strong, `am i (wrong|okay|normal|overreacting)|is (this|it) (okay|normal)|tell me|reassure|worried`),
	rule(domain.BucketReassurance, Supporting, `scared|afraid|anxious|nervous`),

	rule(domain.BucketEmotionalProcessing, Strong, `feel(ing)?|emotion|sad|grief|loss|miss|heart|heavy|numb|confused about (my|how i) feel`),
	rule(domain.BucketEmotionalProcessing, Supporting, `overwhelm|cry|tears|hurt`),

	rule(domain.BucketPatternReflection, Strong, `always|again|keep doing|pattern|cycle|repeat|every time|same thing`),
	rule(domain.BucketPatternReflection, Supporting, `notice|realize|wonder why i`),

	rule(domain.BucketSeekingPerspective, Strong, `perspective|different way|another angle|think about this|make sense|understand`),
	rule(domain.BucketSeekingPerspective, Supporting, `what do you think|how (should|would|do)`),

	rule(domain.BucketDecisionMaking, Strong, `decide|decision|choose|option|should i|torn between|dilemma`),
	rule(domain.BucketDecisionMaking, Supporting, `pros and cons|trade.?off|either.*or`),

	rule(domain.BucketPracticalAction, Strong, `what (can|should) i do|next step|plan|action|strategy|how to (handle|deal|manage|fix|solve)`),
	rule(domain.BucketPracticalAction, Supporting, `advice|suggestion|recommend|tip`),
}
