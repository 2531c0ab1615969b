// Package nlu labels inbound text with an intent, extracted entities and a
// sentiment reading. It never decides conversation flow; that belongs to the
// conversation engine.
package nlu

// Result bundles everything the pipeline knows about one message.
type Result struct {
	Intent    Intent
	Entities  Entities
	Sentiment Sentiment
	Nickname  string
}

// Process runs the full pipeline over a message.
func Process(text string) Result {
	return Result{
		Intent:    Classify(text),
		Entities:  ExtractEntities(text),
		Sentiment: AnalyzeSentiment(text),
		Nickname:  ExtractNickname(text),
	}
}
