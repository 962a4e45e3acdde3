package transaction

// BookQuantity 某本书的累计销量
type BookQuantity struct {
	BookID   string
	Quantity int64
}

// Statistics 交易统计
type Statistics struct {
	TotalTransactions int64
	AverageAmount     float64
	MostPopularGenre  *string // 没有可归类的销量时为nil
	LeastPopularGenre *string
}

// GenreTally 按分类累计销量
// 使用切片记录分类首次出现的顺序,平局时按该顺序取第一个,结果可复现
// (不能依赖map的遍历顺序)。
type GenreTally struct {
	order  []string
	names  map[string]string
	totals map[string]int64
}

// NewGenreTally 创建空的分类统计
func NewGenreTally() *GenreTally {
	return &GenreTally{
		names:  make(map[string]string),
		totals: make(map[string]int64),
	}
}

// Add 累加某分类的销量,分类以ID区分(不同分类可能同名)
func (t *GenreTally) Add(genreID, name string, quantity int64) {
	if _, ok := t.totals[genreID]; !ok {
		t.order = append(t.order, genreID)
		t.names[genreID] = name
	}
	t.totals[genreID] += quantity
}

// Len 已统计的分类数
func (t *GenreTally) Len() int {
	return len(t.order)
}

// Extremes 返回销量严格最高与严格最低的分类名称
// 平局时先出现的分类胜出;没有任何分类时都返回nil
func (t *GenreTally) Extremes() (most, least *string) {
	if len(t.order) == 0 {
		return nil, nil
	}

	mostID, leastID := t.order[0], t.order[0]
	for _, id := range t.order[1:] {
		if t.totals[id] > t.totals[mostID] {
			mostID = id
		}
		if t.totals[id] < t.totals[leastID] {
			leastID = id
		}
	}

	mostName, leastName := t.names[mostID], t.names[leastID]
	return &mostName, &leastName
}

// TallyGenres 把按书统计的销量映射到分类
// bookGenre: 图书ID -> 分类ID;genreNames: 分类ID -> 名称(只包含未删除的分类)
// 图书找不到、或其分类已删除/无法解析时,该书的销量不计入任何分类。
func TallyGenres(sold []BookQuantity, bookGenre, genreNames map[string]string) *GenreTally {
	tally := NewGenreTally()
	for _, s := range sold {
		genreID, ok := bookGenre[s.BookID]
		if !ok {
			continue
		}
		name, ok := genreNames[genreID]
		if !ok {
			continue
		}
		tally.Add(genreID, name, s.Quantity)
	}
	return tally
}
