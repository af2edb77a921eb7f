// Package redis implements the page search index on Redis hashes and sets.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"pagehistory/internal/config"
	"pagehistory/internal/domain"
	"pagehistory/internal/port"
)

const minTermLength = 2

// NewClient opens a Redis client from cfg.
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Protocol: 2,
	})
}

// Index stores one hash per page and one set of page ids per locale and term.
type Index struct {
	client *redis.Client
	prefix string
}

var _ port.SearchIndex = (*Index)(nil)

// NewIndex creates an Index whose keys all start with prefix.
func NewIndex(client *redis.Client, prefix string) *Index {
	return &Index{client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

func (i *Index) pageKey(id int64) string {
	return i.prefix + ":page:" + strconv.FormatInt(id, 10)
}

func (i *Index) termsKey(id int64) string {
	return i.prefix + ":page:" + strconv.FormatInt(id, 10) + ":terms"
}

func (i *Index) termKey(locale, term string) string {
	return i.prefix + ":term:" + locale + ":" + term
}

// Created indexes page. Terms left over from an earlier indexing of the same
// page are dropped first, under the locale it was indexed with then.
func (i *Index) Created(ctx context.Context, page *domain.Page) error {
	previous, err := i.client.SMembers(ctx, i.termsKey(page.ID)).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("searchIndex.Created: %w", err)
	}
	previousLocale, err := i.client.HGet(ctx, i.pageKey(page.ID), "locale").Result()
	switch {
	case err == redis.Nil:
		previousLocale = page.LocaleCode
	case err != nil:
		return fmt.Errorf("searchIndex.Created: %w", err)
	}

	terms := Tokenize(page.Title + " " + page.Description + " " + page.SafeContent)
	id := strconv.FormatInt(page.ID, 10)

	_, err = i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, term := range previous {
			pipe.SRem(ctx, i.termKey(previousLocale, term), id)
		}
		pipe.Del(ctx, i.termsKey(page.ID))

		pipe.HSet(ctx, i.pageKey(page.ID), map[string]any{
			"path":        page.Path,
			"locale":      page.LocaleCode,
			"title":       page.Title,
			"description": page.Description,
			"content":     page.SafeContent,
		})
		for _, term := range terms {
			pipe.SAdd(ctx, i.termKey(page.LocaleCode, term), id)
		}
		if len(terms) > 0 {
			members := make([]any, len(terms))
			for n, term := range terms {
				members[n] = term
			}
			pipe.SAdd(ctx, i.termsKey(page.ID), members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("searchIndex.Created: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"page_id": page.ID,
		"terms":   len(terms),
	}).Debug("searchIndex.Created: indexed")
	return nil
}

// Search returns the ids of pages in locale containing every term of query,
// in ascending order.
func (i *Index) Search(ctx context.Context, locale, query string) ([]int64, error) {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return []int64{}, nil
	}

	keys := make([]string, len(terms))
	for n, term := range terms {
		keys[n] = i.termKey(locale, term)
	}

	members, err := i.client.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("searchIndex.Search: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("searchIndex.Search: bad member %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, nil
}

// Tokenize lowercases text and splits it into unique terms of at least two
// letters or digits, in first-seen order.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := mapset.NewThreadUnsafeSet[string]()
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < minTermLength {
			continue
		}
		if !seen.Add(f) {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}
