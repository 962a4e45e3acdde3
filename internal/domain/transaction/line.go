package transaction

import (
	"fmt"
	"strings"

	apperrors "github.com/xiebiao/bookstore-api/pkg/errors"
)

// MaxLineQuantity 单本书(合并后)允许购买的最大数量
const MaxLineQuantity = 1_000_000

// Line 购买请求中的一行
type Line struct {
	BookID   string
	Quantity int
}

// MergeLines 校验购买行并按BookID合并数量
// 返回的切片按每本书首次出现的顺序排列;同一本书出现多次时数量相加,
// 这样库存检查针对的是该书的总需求量,不会被拆分的行绕过。
// 校验失败时返回ValidationError,列出所有出错字段。
func MergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, apperrors.Validation(apperrors.FieldError{Msg: "items不能为空", Path: "items"})
	}

	var fields []apperrors.FieldError
	for i, l := range lines {
		if strings.TrimSpace(l.BookID) == "" {
			fields = append(fields, apperrors.FieldError{
				Msg:  "bookId不能为空",
				Path: fmt.Sprintf("items[%d].bookId", i),
			})
		}
		switch {
		case l.Quantity <= 0:
			fields = append(fields, apperrors.FieldError{
				Msg:  "quantity必须是正整数",
				Path: fmt.Sprintf("items[%d].quantity", i),
			})
		case l.Quantity > MaxLineQuantity:
			fields = append(fields, quantityTooLarge(i))
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields...)
	}

	index := make(map[string]int, len(lines))
	merged := make([]Line, 0, len(lines))
	for n, l := range lines {
		id := strings.TrimSpace(l.BookID)
		if i, ok := index[id]; ok {
			// 两个加数都不超过MaxLineQuantity,相加不会溢出
			if merged[i].Quantity+l.Quantity > MaxLineQuantity {
				return nil, apperrors.Validation(quantityTooLarge(n))
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, Line{BookID: id, Quantity: l.Quantity})
	}
	return merged, nil
}

func quantityTooLarge(i int) apperrors.FieldError {
	return apperrors.FieldError{
		Msg:  fmt.Sprintf("同一本书的购买数量不能超过%d", MaxLineQuantity),
		Path: fmt.Sprintf("items[%d].quantity", i),
	}
}

// BookIDs 返回各行的图书ID(保持顺序)
func BookIDs(lines []Line) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.BookID
	}
	return ids
}
