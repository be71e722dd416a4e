package summarizer

const wordsPerMinute = 200

// FallbackProvider identifies summaries produced by the rule-based path.
const FallbackProvider = "rule-based"

var announcementVerbs = []string{
	"announced", "launched", "opened", "completed", "started", "revealed",
}

var positiveWords = []string{
	"success", "growth", "win", "improve", "benefit", "celebrate", "record",
	"breakthrough", "achievement", "progress", "strong", "boost",
}

var negativeWords = []string{
	"crisis", "death", "failure", "loss", "decline", "accident", "fraud",
	"protest", "shortage", "collapse", "threat", "weak",
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "its": true, "of": true,
	"on": true, "or": true, "that": true, "the": true, "this": true, "to": true,
	"was": true, "were": true, "will": true, "with": true, "after": true,
	"over": true, "new": true, "more": true, "their": true,
}

var topicVocabulary = []string{
	"technology", "business", "health", "sports", "entertainment", "politics",
	"science", "education", "environment", "transport", "economy", "culture",
	"crime", "weather", "housing", "energy",
}

var locationVocabulary = []string{
	"bengaluru", "mumbai", "delhi", "chennai", "hyderabad", "kolkata", "pune",
	"london", "new york", "karnataka", "maharashtra", "india",
}
