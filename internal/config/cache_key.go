package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizDocKey returns the cache key for a published quiz document.
func (r *CacheKeyStruct) QuizDocKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:doc", quizID)
}

var CacheKey = NewCacheKeyStruct()
