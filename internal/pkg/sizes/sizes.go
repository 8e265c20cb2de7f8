package sizes

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var ErrInvalidSizesInput = errors.New("invalid sizes input")

// SizeStock 後台尺寸庫存輸入的一個項目
type SizeStock struct {
	Size  int  `json:"size"`
	Stock uint `json:"stock"`
}

/*
Parse 解析後台的尺寸庫存輸入，支援兩種格式:
 1. "250:10,260:0,270:5"
 2. JSON 字串 '[{"size":250,"stock":10},{"size":260,"stock":0}]'

解析失敗直接回傳錯誤，不做靜默修正
同一尺寸出現兩次視為錯誤輸入
*/
func Parse(input string) ([]SizeStock, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return []SizeStock{}, nil
	}

	var result []SizeStock
	var err error
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		result, err = parseJSON(raw)
	} else {
		result, err = parsePairs(raw)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(result))
	for _, s := range result {
		if s.Size <= 0 {
			return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidSizesInput, s.Size)
		}
		if _, ok := seen[s.Size]; ok {
			return nil, fmt.Errorf("%w: duplicate size %d", ErrInvalidSizesInput, s.Size)
		}
		seen[s.Size] = struct{}{}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Size < result[j].Size })
	return result, nil
}

func parseJSON(raw string) ([]SizeStock, error) {
	var arr []struct {
		Size  *int `json:"size"`
		Stock *int `json:"stock"`
	}
	if strings.HasPrefix(raw, "{") {
		raw = "[" + raw + "]"
	}
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSizesInput, err)
	}

	result := make([]SizeStock, 0, len(arr))
	for _, x := range arr {
		if x.Size == nil || x.Stock == nil {
			return nil, fmt.Errorf("%w: size and stock are required", ErrInvalidSizesInput)
		}
		if *x.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0, got %d", ErrInvalidSizesInput, *x.Stock)
		}
		result = append(result, SizeStock{Size: *x.Size, Stock: uint(*x.Stock)})
	}
	return result, nil
}

// "250:10,260:0" 格式
func parsePairs(raw string) ([]SizeStock, error) {
	parts := strings.Split(raw, ",")
	result := make([]SizeStock, 0, len(parts))
	for _, part := range parts {
		pair := strings.TrimSpace(part)
		if pair == "" {
			continue
		}

		fields := strings.Split(pair, ":")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: expected size:stock, got %q", ErrInvalidSizesInput, pair)
		}

		size, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid size %q", ErrInvalidSizesInput, fields[0])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stock %q", ErrInvalidSizesInput, fields[1])
		}
		if stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0, got %d", ErrInvalidSizesInput, stock)
		}

		result = append(result, SizeStock{Size: size, Stock: uint(stock)})
	}
	return result, nil
}
