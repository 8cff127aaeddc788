package diag

import (
	"fmt"
	"sort"
)

// Bag копит диагностики одного прогона (файл или каталог шаблонов).
// Сверх лимита --max-diagnostics записи не хранятся, только считаются.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если лимит достигнут; такая запись попадает в Dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped: сколько диагностик не поместилось в лимит.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если хоть один файл остался без вывода.
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// Count считает сохранённые диагностики ровно этой severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// DropBelow убирает диагностики ниже min (например, RND5004 при --min-severity warning).
func (b *Bag) DropBelow(min Severity) {
	kept := b.items[:0]
	for _, d := range b.items {
		if d.Severity >= min {
			kept = append(kept, d)
		}
	}
	b.items = kept
}

// Sort упорядочивает по файлу и позиции, затем severity (по убыванию) и коду,
// чтобы вывод для каталога шаблонов не зависел от порядка воркеров.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// простая дедупликация (по Code+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	kept := b.items[:0]
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.ID(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}
