package chatbot

import "strings"

// Answer actions. show_text renders the payload as a message; navigate
// sends the client to the payload route.
const (
	ActionShowText = "show_text"
	ActionNavigate = "navigate"
)

type Answer struct {
	Action  string `json:"action"`
	Payload string `json:"payload"`
}

type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

type AskDTO struct {
	Question string `json:"pergunta"`
}

func (d AskDTO) Validate() error {
	if strings.TrimSpace(d.Question) == "" {
		return ValidationError{Msg: "pergunta is required"}
	}
	if len(d.Question) > 2000 {
		return ValidationError{Msg: "pergunta must be at most 2000 characters"}
	}
	return nil
}

// navigationRoutes maps question keywords to client routes. This table is
// both the fallback when the assistant is unavailable and the whitelist
// for navigate answers it proposes.
var navigationRoutes = []struct {
	keywords []string
	route    string
}{
	{[]string{"nova viagem", "solicitar viagem", "criar viagem"}, "/viagens/nova"},
	{[]string{"minhas viagens", "listar viagens"}, "/viagens"},
	{[]string{"despesa", "reembolso", "recibo"}, "/despesas"},
	{[]string{"convite", "convidar", "visitante"}, "/convites"},
	{[]string{"perfil", "meus dados"}, "/perfil"},
}

// RouteFor returns the first route whose keywords appear in the question,
// or "" when none match.
func RouteFor(question string) string {
	q := strings.ToLower(question)
	for _, entry := range navigationRoutes {
		for _, kw := range entry.keywords {
			if strings.Contains(q, kw) {
				return entry.route
			}
		}
	}
	return ""
}

// IsKnownRoute guards navigate answers against hallucinated paths.
func IsKnownRoute(route string) bool {
	for _, entry := range navigationRoutes {
		if entry.route == route {
			return true
		}
	}
	return false
}
