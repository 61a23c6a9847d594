package extract

import (
	"strings"

	"github.com/daehyun-cc/callticket/internal/vocab"
)

// Prompt size caps. The allowed lists go into the system prompt in full up
// to these limits; the expression hints go into the user prompt. Both caps
// keep the prompt inside a predictable token envelope regardless of how
// large the reference tables grow.
const (
	maxEquipmentInPrompt = 20
	maxFaultsInPrompt    = 20
	maxRequestsInPrompt  = 10

	maxEquipmentHints = 3
	maxFaultHints     = 5
	maxRequestHints   = 5
)

// buildSystemPrompt renders the constrained extraction instruction: the
// task, the allowed vocabulary, and the strict JSON output contract. The
// model is told to emit null rather than invent out-of-vocabulary values;
// the resolver re-checks that promise anyway.
func buildSystemPrompt(v *vocab.Vocabulary) string {
	var b strings.Builder
	b.WriteString("당신은 통신 장비 고객센터의 상담 녹취에서 핵심 정보를 추출하는 도우미입니다.\n")
	b.WriteString("아래 상담 대화에서 다음 네 가지 항목을 추출하여 JSON 객체 하나로만 응답하세요.\n\n")

	b.WriteString("추출 항목:\n")
	b.WriteString("- 장비명: 아래 허용 장비명 목록 중 하나\n")
	b.WriteString("- 장애유형: 아래 허용 장애유형 코드 중 하나\n")
	b.WriteString("- 요청유형: 아래 허용 요청유형 코드 중 하나\n")
	b.WriteString("- 위치: 대화에 언급된 작업 위치 (자유 서술)\n\n")

	writeAllowed(&b, "허용 장비명", v.Allowed(vocab.CategoryEquipment), maxEquipmentInPrompt)
	writeAllowed(&b, "허용 장애유형 코드", v.Allowed(vocab.CategoryFault), maxFaultsInPrompt)
	writeAllowed(&b, "허용 요청유형 코드", v.Allowed(vocab.CategoryRequest), maxRequestsInPrompt)

	b.WriteString("\n응답 형식 (이 JSON 객체 외의 텍스트를 절대 포함하지 마세요):\n")
	b.WriteString(`{"장비명": "...", "장애유형": "...", "요청유형": "...", "위치": "..."}` + "\n\n")

	b.WriteString("규칙:\n")
	b.WriteString("- 허용 목록에 없는 값은 생성하지 말고 null을 사용하세요.\n")
	b.WriteString("- 대화에서 확인할 수 없는 항목은 null로 두세요.\n")
	b.WriteString("- 설명, 코드 블록, 추가 문장 없이 JSON만 출력하세요.\n")
	return b.String()
}

// buildUserPrompt wraps the conversation text and appends a small sample of
// expression hints from the reference tables so the model recognises
// colloquial phrasings of canonical values.
func buildUserPrompt(conversation string, v *vocab.Vocabulary) string {
	var b strings.Builder
	b.WriteString("[대화]\n")
	b.WriteString(strings.TrimSpace(conversation))
	b.WriteString("\n")

	hints := make([]string, 0, maxEquipmentHints+maxFaultHints+maxRequestHints)
	hints = append(hints, capList(v.Hints.Equipment, maxEquipmentHints)...)
	hints = append(hints, capList(v.Hints.Faults, maxFaultHints)...)
	hints = append(hints, capList(v.Hints.Requests, maxRequestHints)...)
	if len(hints) > 0 {
		b.WriteString("\n[표현 힌트(예시)]\n")
		for _, h := range hints {
			b.WriteString("- ")
			b.WriteString(h)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeAllowed(b *strings.Builder, label string, values []string, limit int) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(strings.Join(capList(values, limit), ", "))
	b.WriteString("\n")
}

func capList(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
