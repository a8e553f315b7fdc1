package service

// maxPage bounds page numbers so offsets stay far from int overflow.
const maxPage = 1_000_000

// clampPage limits page to [1, maxPage].
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}
