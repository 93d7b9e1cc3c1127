package classifier

import (
	"context"
	"fmt"

	"dev.prompt.router/internal/models"
)

// seedCorpus is the starting set of labelled examples. Feedback grows the
// collection from here.
var seedCorpus = map[models.TaskCategory][]string{
	models.CategorySimple: {
		"What is the capital of France?",
		"Translate 'good morning' to Spanish",
		"How many ounces are in a pound?",
		"What time zone is Tokyo in?",
		"Define the word 'ephemeral'",
		"Who wrote Pride and Prejudice?",
		"What year did the Berlin Wall fall?",
		"Convert 100 fahrenheit to celsius",
		"What does HTTP stand for?",
	},
	models.CategoryCode: {
		"Write a binary search function in Go",
		"Fix this nil pointer dereference in my handler",
		"Refactor this class to use dependency injection",
		"Why does this SQL query return duplicate rows?",
		"Add unit tests for the payment service",
		"Explain what this regular expression matches",
		"Convert this callback-based code to async await",
		"Implement a rate limiter using a token bucket",
		"Debug this stack trace from production",
		"Write a Dockerfile for a Python web app",
	},
	models.CategoryReasoning: {
		"If all bloops are razzies and all razzies are lazzies, are all bloops lazzies?",
		"Should we build or buy our authentication system? Walk through the tradeoffs",
		"A farmer needs to cross a river with a wolf, a goat and a cabbage. How?",
		"Prove that the square root of 2 is irrational",
		"What are the second-order effects of a four-day work week?",
		"Plan a migration from a monolith to microservices with minimal downtime",
		"Three people check into a hotel room that costs 30 dollars. Explain the missing dollar riddle",
		"Evaluate the argument: automation destroys more jobs than it creates",
		"Design a fair algorithm for splitting rent among roommates with different room sizes",
	},
	models.CategoryDataAnalysis: {
		"Summarise the key trends in this quarterly sales CSV",
		"Which cohort has the highest retention in this table?",
		"Calculate the correlation between ad spend and signups from this data",
		"Find outliers in this latency dataset and explain them",
		"Build a pivot of revenue by region and month",
		"What is the month-over-month growth rate in these figures?",
		"Segment these customers by purchase frequency and value",
		"Interpret this A/B test result: control 2.1%, variant 2.4%, n=10000",
		"Forecast next quarter's demand from this time series",
	},
	models.CategoryCreative: {
		"Write a haiku about the ocean at dawn",
		"Draft a product launch announcement with an upbeat tone",
		"Tell a short story about a lighthouse keeper who finds a message in a bottle",
		"Brainstorm ten names for a coffee shop near a university",
		"Write song lyrics about leaving home for the first time",
		"Compose a wedding toast for my college roommate",
		"Describe a cyberpunk city at night in vivid detail",
		"Write a playful out-of-office reply for the holidays",
		"Create a tagline for an eco-friendly sneaker brand",
	},
}

// Seed loads the built-in example corpus into the vector store and returns
// the number of examples written.
func (c *SemanticClassifier) Seed(ctx context.Context) (int, error) {
	total := 0
	for _, category := range models.AllCategories {
		for _, text := range seedCorpus[category] {
			if err := c.addPoint(ctx, text, category, "seed"); err != nil {
				return total, fmt.Errorf("failed to seed %s example: %w", category, err)
			}
			total++
		}
	}
	c.logger.WithField("count", total).Info("Seeded example corpus")
	return total, nil
}
