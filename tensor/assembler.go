package tensor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bagtensor/vocab"
)

// ErrEmptyIdentifier is returned for a review without a user or item id.
var ErrEmptyIdentifier = errors.New("empty identifier")

// Review is one encoded document with its raw identity.
type Review struct {
	User string
	Item string
	Row  vocab.Row
}

// Tensor is the full entry set together with its entity indexes.
type Tensor struct {
	Users   *EntityIndex
	Items   *EntityIndex
	Words   int
	Entries EntrySet
}

// Dims returns the tensor size along every mode.
func (t *Tensor) Dims() (users, items, words int) {
	return t.Users.Len(), t.Items.Len(), t.Words
}

// Assemble builds the entity indexes from reviews and expands every row into
// entries. words is the vocabulary size.
//
// Users and items whose reviews carry no vocabulary words still receive an
// index; they simply contribute no entries.
func Assemble(reviews []Review, words int) (*Tensor, error) {
	users := make([]string, 0, len(reviews))
	items := make([]string, 0, len(reviews))
	size := 0
	for i, r := range reviews {
		if r.User == "" || r.Item == "" {
			return nil, fmt.Errorf("review %d: %w", i, ErrEmptyIdentifier)
		}
		users = append(users, r.User)
		items = append(items, r.Item)
		size += len(r.Row)
	}

	t := &Tensor{
		Users:   NewEntityIndex(users),
		Items:   NewEntityIndex(items),
		Words:   words,
		Entries: make(EntrySet, 0, size),
	}

	for i, r := range reviews {
		u := t.Users.MustIndex(r.User)
		p := t.Items.MustIndex(r.Item)
		for _, c := range r.Row {
			if int(c.Word) >= words {
				return nil, fmt.Errorf("review %d: word id %d outside vocabulary of %d", i, c.Word, words)
			}
			if c.Count == 0 {
				continue
			}
			t.Entries = append(t.Entries, Entry{User: u, Item: p, Word: c.Word, Count: c.Count})
		}
	}

	return t, nil
}
