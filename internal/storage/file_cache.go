// internal/storage/file_cache.go
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/zerosite/zerosite/internal/models"
)

// ParseFunc 将文档文本解析为内容树
type ParseFunc func(text string) *models.ZeroContent

// DocumentCache 提供文档读取与解析结果缓存。
// 缓存项按绝对路径存放，文件修改时间或大小变化、或超过过期时间后重新读取；
// 重新读取的文本若与已解析过的某个版本哈希相同，则直接复用解析结果。
// 返回的 ZeroContent 是共享的，调用方只能读取。
type DocumentCache struct {
	parse      ParseFunc
	files      map[string]*DocumentCacheEntry
	byHash     map[string]*models.ZeroContent
	mutex      sync.RWMutex
	maxSize    int           // 最大缓存条目数
	expiration time.Duration // 缓存过期时间
}

// DocumentCacheEntry 缓存条目
type DocumentCacheEntry struct {
	Content   *models.ZeroContent
	Hash      string
	CreatedAt time.Time
	LastRead  time.Time
	FileInfo  os.FileInfo // 用于检测文件是否被修改
}

// LoadResult 一次读取的结果
type LoadResult struct {
	Content *models.ZeroContent
	Hash    string
	Cached  bool // true 表示没有重新解析
}

// NewDocumentCache 创建文档缓存
func NewDocumentCache(parse ParseFunc, maxSize int, expiration time.Duration) *DocumentCache {
	if maxSize <= 0 {
		maxSize = 16
	}

	if expiration <= 0 {
		expiration = 5 * time.Minute
	}

	return &DocumentCache{
		parse:      parse,
		files:      make(map[string]*DocumentCacheEntry),
		byHash:     make(map[string]*models.ZeroContent),
		maxSize:    maxSize,
		expiration: expiration,
	}
}

// Load 读取并解析文档，命中缓存时不重新解析
func (s *DocumentCache) Load(path string) (*LoadResult, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("获取文件绝对路径失败: %w", err)
	}

	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取文件信息失败: %w", err)
	}

	s.mutex.Lock()
	entry, exists := s.files[absPath]
	if exists {
		isModified := !fileInfo.ModTime().Equal(entry.FileInfo.ModTime()) ||
			fileInfo.Size() != entry.FileInfo.Size()
		isExpired := time.Since(entry.CreatedAt) > s.expiration

		if !isModified && !isExpired {
			entry.LastRead = time.Now()
			s.mutex.Unlock()
			return &LoadResult{Content: entry.Content, Hash: entry.Hash, Cached: true}, nil
		}
	}
	s.mutex.Unlock()

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	s.mutex.RLock()
	content, known := s.byHash[hash]
	s.mutex.RUnlock()

	if !known {
		content = s.parse(string(data))
	}

	now := time.Now()
	s.mutex.Lock()
	s.byHash[hash] = content
	s.files[absPath] = &DocumentCacheEntry{
		Content:   content,
		Hash:      hash,
		CreatedAt: now,
		LastRead:  now,
		FileInfo:  fileInfo,
	}

	// 如果缓存太大，清理最少使用的条目
	if len(s.files) > s.maxSize {
		s.cleanupLRU(max(1, s.maxSize/5))
	}
	s.mutex.Unlock()

	return &LoadResult{Content: content, Hash: hash, Cached: known}, nil
}

// Invalidate 从缓存中删除条目
func (s *DocumentCache) Invalidate(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}

	s.mutex.Lock()
	delete(s.files, absPath)
	s.mutex.Unlock()
}

// Clear 清空缓存
func (s *DocumentCache) Clear() {
	s.mutex.Lock()
	s.files = make(map[string]*DocumentCacheEntry)
	s.byHash = make(map[string]*models.ZeroContent)
	s.mutex.Unlock()
}

// Len 返回缓存的文件数
func (s *DocumentCache) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.files)
}

// 清理最少使用的条目，同时丢弃不再被引用的解析结果
func (s *DocumentCache) cleanupLRU(count int) {
	type keyAge struct {
		key  string
		time time.Time
	}

	entries := make([]keyAge, 0, len(s.files))
	for k, v := range s.files {
		entries = append(entries, keyAge{k, v.LastRead})
	}

	// 按最后读取时间排序
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].time.Before(entries[j].time)
	})

	maxToDelete := min(count, len(entries))
	for i := 0; i < maxToDelete; i++ {
		delete(s.files, entries[i].key)
	}

	live := make(map[string]bool, len(s.files))
	for _, e := range s.files {
		live[e.Hash] = true
	}
	for hash := range s.byHash {
		if !live[hash] {
			delete(s.byHash, hash)
		}
	}
}
