// Package content holds the immutable category/role pool the game draws from.
// Categories are authored data; the coordinator treats them as read-only.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
)

//go:embed categories.json
var rawCategories []byte

type Role struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Desc  string `json:"desc"`
}

type Category struct {
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// RoleByID returns the role with the given id, if the category has one.
func (c Category) RoleByID(id int) (Role, bool) {
	for _, r := range c.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// Pool is a fixed set of categories that rounds sample from.
type Pool struct {
	categories []Category
}

// NewPool builds a pool from the given categories.
func NewPool(categories []Category) *Pool {
	return &Pool{categories: categories}
}

// DefaultPool parses the embedded category data.
func DefaultPool() (*Pool, error) {
	var categories []Category
	if err := json.Unmarshal(rawCategories, &categories); err != nil {
		return nil, fmt.Errorf("parse embedded categories: %w", err)
	}
	return NewPool(categories), nil
}

// Size returns the number of categories in the pool.
func (p *Pool) Size() int { return len(p.categories) }

// Sample returns up to n distinct categories in random order. The pool itself
// is never mutated.
func (p *Pool) Sample(n int) []Category {
	shuffled := make([]Category, len(p.categories))
	copy(shuffled, p.categories)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
