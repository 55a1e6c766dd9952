package assets

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"saedam/internal/model"
)

//go:embed bundled
var bundledFS embed.FS

// AssetNames 교체 가능한 첨부 이미지（닫힌 집합）
var AssetNames = []string{"logo01.jpg", "ad1.jpg", "ad2.jpg", "ad3.jpg"}

// ValidAsset 알려진 자산 이름인지 확인
func ValidAsset(name string) bool {
	for _, n := range AssetNames {
		if n == name {
			return true
		}
	}
	return false
}

// ValidBucket 버킷은 담당자 키 또는 빈 문자열（공용）
func ValidBucket(bucket string) bool {
	return bucket == "" || model.OperatorKey(bucket).Valid()
}

// Cache 첨부 이미지 캐시. 프로세스 전역으로 하나만 두고 여러 발송이
// 동시에 읽는다. 교체 시에는 부분 갱신 없이 전체를 다시 적재한다
// （교체는 드물고 자산 집합이 작아서 정확성을 우선）.
type Cache struct {
	staticDir string // 영속 저장소 (<dataDir>/static)

	mu      sync.RWMutex
	stored  map[string][]byte // 저장소 계층: "bucket/name" 또는 "name"
	bundled map[string][]byte // 내장 계층: 동일 키 체계
}

// New 캐시 생성 후 1회 적재
func New(staticDir string) (*Cache, error) {
	c := &Cache{staticDir: staticDir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// key 버킷/이름에 대한 캐시 키（공용은 이름만）
func key(bucket, name string) string {
	if bucket == "" {
		return name
	}
	return bucket + "/" + name
}

// Reload 두 계층 전체를 다시 적재한다.
func (c *Cache) Reload() error {
	buckets := []string{"", string(model.OperatorSend01), string(model.OperatorSend02)}

	stored := make(map[string][]byte)
	for _, bucket := range buckets {
		for _, name := range AssetNames {
			path := filepath.Join(c.staticDir, bucket, name)
			data, err := os.ReadFile(path)
			if err != nil {
				// 파일이 없어도 괜찮음（폴백 사용）
				continue
			}
			stored[key(bucket, name)] = data
		}
	}

	bundled := make(map[string][]byte)
	for _, name := range AssetNames {
		if data, err := bundledFS.ReadFile("bundled/" + name); err == nil {
			bundled[name] = data
		}
	}

	c.mu.Lock()
	c.stored = stored
	c.bundled = bundled
	c.mu.Unlock()
	return nil
}

// Resolve 폴백 순서: 저장소 버킷 → 저장소 공용 → 내장 버킷 → 내장 공용.
// 첫 적중이 이긴다.
func (c *Cache) Resolve(bucket, name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if data, ok := c.stored[key(bucket, name)]; ok {
		return data, true
	}
	if data, ok := c.stored[name]; ok {
		return data, true
	}
	if data, ok := c.bundled[key(bucket, name)]; ok {
		return data, true
	}
	if data, ok := c.bundled[name]; ok {
		return data, true
	}
	return nil, false
}

// Replace 자산 파일을 저장소에 기록하고 캐시 전체를 다시 적재한다.
func (c *Cache) Replace(bucket, name string, data []byte) error {
	if !ValidAsset(name) {
		return fmt.Errorf("unknown asset name: %s", name)
	}
	if !ValidBucket(bucket) {
		return fmt.Errorf("unknown bucket: %s", bucket)
	}

	dir := filepath.Join(c.staticDir, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create asset dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write asset: %w", err)
	}
	return c.Reload()
}
