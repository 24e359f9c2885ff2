// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// ArticlePublishedEvent is published when an article is created.  It carries
// enough information for downstream consumers to log, notify, or feed search
// indexing without querying the primary database.
type ArticlePublishedEvent struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	AuthorUsername string   `json:"author_username"`
	Tags           []string `json:"tags"`
	PublishedAt    string   `json:"published_at"`
}
