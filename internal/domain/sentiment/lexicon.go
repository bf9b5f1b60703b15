package sentiment

// positive and negative words carry a polarity between 1 and 3.
var lexicon = map[string]int{
	"excellent": 3, "outstanding": 3, "exceptional": 3, "amazing": 3, "brilliant": 3,
	"great": 2, "strong": 2, "impressive": 2, "reliable": 2, "proactive": 2,
	"helpful": 2, "innovative": 2, "dedicated": 2, "efficient": 2, "creative": 2,
	"collaborative": 2, "supportive": 2, "motivated": 2, "exceeds": 2, "exceeded": 2,
	"good": 1, "solid": 1, "positive": 1, "improved": 1, "improving": 1,
	"consistent": 1, "capable": 1, "clear": 1, "thorough": 1, "organized": 1,
	"punctual": 1, "friendly": 1, "responsive": 1, "growth": 1, "success": 1,
	"successful": 1, "meets": 1, "progress": 1, "enthusiastic": 1, "valuable": 1,

	"terrible": -3, "awful": -3, "unacceptable": -3, "toxic": -3, "incompetent": -3,
	"poor": -2, "bad": -2, "careless": -2, "unreliable": -2, "lazy": -2,
	"disruptive": -2, "rude": -2, "negligent": -2, "failed": -2, "fails": -2,
	"weak": -2, "disorganized": -2, "unprofessional": -2, "frustrating": -2, "missed": -2,
	"late": -1, "slow": -1, "inconsistent": -1, "struggles": -1, "struggled": -1,
	"issue": -1, "issues": -1, "problem": -1, "problems": -1, "concern": -1,
	"concerns": -1, "mistake": -1, "mistakes": -1, "delayed": -1, "unclear": -1,
	"lacks": -1, "lacking": -1, "difficult": -1, "below": -1, "confusing": -1,
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "nobody": true,
	"nothing": true, "hardly": true, "without": true, "isn't": true, "wasn't": true,
	"aren't": true, "doesn't": true, "don't": true, "didn't": true, "can't": true,
	"cannot": true, "won't": true, "shouldn't": true, "neither": true, "nor": true,
}

var intensifiers = map[string]bool{
	"very": true, "extremely": true, "really": true, "highly": true, "incredibly": true,
	"truly": true, "exceptionally": true, "particularly": true, "so": true, "consistently": true,
}
