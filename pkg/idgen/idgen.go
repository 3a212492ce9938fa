/*
 * @Description: 搜索结果公共 ID 的编码与解码
 * @Author: 安知鱼
 * @Date: 2026-09-03 20:38:15
 * @LastEditTime: 2026-10-15 11:48:20
 * @LastEditors: 安知鱼
 */
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"sync"

	"github.com/sqids/sqids-go"

	"github.com/ghibli-db/ghibli-app/pkg/domain/model"
)

// DefaultAlphabet 未配置种子时使用的字母表
const DefaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const minIDLength = 4

var (
	ErrNotInitialized = errors.New("sqids encoder not initialized")
	ErrMalformedID    = errors.New("malformed public id")
	ErrUnknownType    = errors.New("unknown entity type")
)

// typeCodes 公共 ID 中的类型编码，已发布的编码不能改动
var typeCodes = map[model.EntityType]uint64{
	model.EntityTypeMovie:     1,
	model.EntityTypeCharacter: 2,
	model.EntityTypeReview:    3,
	model.EntityTypeGuide:     4,
	model.EntityTypeMedia:     5,
}

var (
	mu      sync.RWMutex
	encoder *sqids.Sqids
)

// GenerateRandomSeed 生成 32 个十六进制字符的随机种子，用于 Search.IDSeed
func GenerateRandomSeed() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("生成随机种子失败: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// shuffleAlphabet 同一种子总是得到同一字母表
func shuffleAlphabet(seed string) string {
	var n int64
	for i, c := range seed {
		n += int64(c) * int64(i+1)
	}
	alphabet := []rune(DefaultAlphabet)
	mrand.New(mrand.NewSource(n)).Shuffle(len(alphabet), func(i, j int) {
		alphabet[i], alphabet[j] = alphabet[j], alphabet[i]
	})
	return string(alphabet)
}

// InitSqidsEncoder 使用默认字母表初始化编码器
func InitSqidsEncoder() error {
	return InitSqidsEncoderWithSeed("")
}

// InitSqidsEncoderWithSeed seed 为空时使用默认字母表。
// 更换种子会让已经对外发布的链接失效。
func InitSqidsEncoderWithSeed(seed string) error {
	alphabet := DefaultAlphabet
	if seed != "" {
		alphabet = shuffleAlphabet(seed)
	}
	s, err := sqids.New(sqids.Options{MinLength: minIDLength, Alphabet: alphabet})
	if err != nil {
		return fmt.Errorf("初始化 Sqids 编码器失败: %w", err)
	}

	mu.Lock()
	encoder = s
	mu.Unlock()
	return nil
}

func current() (*sqids.Sqids, error) {
	mu.RLock()
	defer mu.RUnlock()
	if encoder == nil {
		return nil, ErrNotInitialized
	}
	return encoder, nil
}

// GeneratePublicID 把数据库 ID 和结果类型一起编码，不同类型的同一 ID 得到不同的公共 ID
func GeneratePublicID(dbID uint, entityType model.EntityType) (string, error) {
	code, ok := typeCodes[entityType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, entityType)
	}
	enc, err := current()
	if err != nil {
		return "", err
	}
	id, err := enc.Encode([]uint64{uint64(dbID), code})
	if err != nil {
		return "", fmt.Errorf("编码公共ID失败: %w", err)
	}
	return id, nil
}

// DecodePublicID 是 GeneratePublicID 的逆操作
func DecodePublicID(publicID string) (uint, model.EntityType, error) {
	enc, err := current()
	if err != nil {
		return 0, "", err
	}
	numbers := enc.Decode(publicID)
	if len(numbers) != 2 {
		return 0, "", fmt.Errorf("%w: %q 解码得到 %d 个数字", ErrMalformedID, publicID, len(numbers))
	}
	for t, code := range typeCodes {
		if code == numbers[1] {
			return uint(numbers[0]), t, nil
		}
	}
	return 0, "", fmt.Errorf("%w: code %d", ErrUnknownType, numbers[1])
}
