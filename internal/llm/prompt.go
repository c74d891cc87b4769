package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hallyusync/concert-sync/internal/concert"
)

// modeAPrompt builds the crawl-driven refinement prompt (spec §4.4 Mode A):
// preserve one refined item per crawl item, normalize date/time, cross
// verify duplicates across sites, fill gaps via web search, and use
// canonical Korean-won price formatting.
func modeAPrompt(artistName string, raw []concert.RawConcertData) string {
	rawJSON, _ := json.Marshal(raw)

	var b strings.Builder
	fmt.Fprintf(&b, "아티스트 \"%s\"의 다음 크롤링 결과를 정제하세요.\n\n", artistName)
	fmt.Fprintf(&b, "크롤링 원본 (JSON):\n%s\n\n", rawJSON)
	b.WriteString("규칙:\n")
	b.WriteString("1. 크롤링 항목 하나당 정제된 항목 하나를 생성하세요 (사이트 간 병합 금지).\n")
	b.WriteString("2. 날짜는 YYYY-MM-DD, 시간은 HH:MM 형식으로 정규화하세요.\n")
	b.WriteString("3. 동일한 공연이 2개 이상의 사이트에 나타나면 해당 항목 모두 is_verified=true로 설정하세요.\n")
	b.WriteString("4. concert_time, ticket_price, booking_date가 비어 있으면 웹 검색으로 채우세요.\n")
	b.WriteString("5. raw에 없는 공연을 지어내지 마세요.\n")
	b.WriteString("6. 가격은 단일 등급이면 \"전석 X원\", 다중 등급이면 \"VIP … / R석 … / S석 …\" 형식을 쓰고, 같은 가격이라도 지정석과 스탠딩석을 \"전석\"으로 합치지 말고 각각 표기하세요.\n")
	b.WriteString("\nJSON 배열만 출력하세요. 각 항목은 concert_title, venue, concert_date, concert_time, ticket_price, booking_date, booking_url, source, confidence, data_sources, is_verified 필드를 가져야 합니다.\n")
	return b.String()
}

// modeBPrompt builds the direct-search fallback prompt (spec §4.4 Mode B),
// used when the crawl produced nothing.
func modeBPrompt(artistName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\"%s\"의 향후 한국 내한 콘서트 정보를 웹에서 검색하세요.\n\n", artistName)
	b.WriteString("이미 지난 공연은 제외하세요.\n")
	b.WriteString("JSON 배열만 출력하세요. 각 항목은 concert_title, venue, concert_date, concert_time, ticket_price, booking_date, booking_url 필드를 가져야 합니다.\n")
	b.WriteString("확실한 정보만 포함하고, 확인되지 않은 공연은 포함하지 마세요.\n")
	return b.String()
}
