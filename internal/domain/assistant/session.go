package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"vetclinic-dashboard/internal/platform/logger"
	port "vetclinic-dashboard/internal/ports/assistant"
)

const (
	Greeting = "Olá, Dr. Silva! Sou seu assistente inteligente VetClinic. Como posso ajudar com seus pacientes ou estoque hoje?"

	Fallback = "Tive um problema de conexão com meus módulos de IA. Por favor, tente novamente."

	EmptyReply = "Não consegui processar sua dúvida."

	SystemInstruction = "Você é o 'VetBot', o assistente de elite da VetClinic Pro. Sua missão é fornecer suporte técnico veterinário (protocolos, doses, diagnósticos diferenciais) e administrativo (gestão de estoque e agenda). Seja breve, preciso e use termos técnicos adequados em português do Brasil."
)

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrPending    = errors.New("a reply is already pending")
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Assist manda el texto crudo con la instrucción fija. Nunca falla: ante
// cualquier error (incluida la falta de API key) devuelve Fallback.
func Assist(ctx context.Context, c port.Completer, log logger.Logger, prompt string) string {
	if log == nil {
		log = logger.NewNop()
	}
	if c == nil {
		log.Warn("assistant completer missing", nil)
		return Fallback
	}

	reply, err := c.Complete(ctx, prompt, SystemInstruction)
	if err != nil {
		log.Error("assistant call failed", map[string]any{"error": err})
		return Fallback
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}

// Session es el log de mensajes del panel: solo agrega, nunca edita.
// Cada Send agrega exactamente un mensaje del usuario y uno del asistente.
type Session struct {
	completer port.Completer
	log       logger.Logger
	now       func() time.Time

	mu       sync.Mutex
	messages []Message
	pending  bool
	gen      uint64
}

func NewSession(c port.Completer, log logger.Logger) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Session{
		completer: c,
		log:       log,
		now:       time.Now,
	}
	s.messages = s.seed()
	return s
}

func (s *Session) seed() []Message {
	return []Message{{Role: RoleAssistant, Text: Greeting, At: s.now()}}
}

// Send bloquea hasta tener la respuesta. No hay streaming ni cancelación
// desde el panel; ctx solo corta el request saliente.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return Message{}, ErrPending
	}
	s.messages = append(s.messages, Message{Role: RoleUser, Text: text, At: s.now()})
	s.pending = true
	gen := s.gen
	s.mu.Unlock()

	reply := Message{Role: RoleAssistant, Text: Assist(ctx, s.completer, s.log, text)}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply.At = s.now()
	if gen != s.gen {
		// el panel se cerró mientras esperábamos: la respuesta no entra al log nuevo
		s.log.Debug("assistant reply dropped after reset", nil)
		return reply, nil
	}
	s.messages = append(s.messages, reply)
	s.pending = false
	return reply, nil
}

func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Reset equivale a cerrar el panel: vuelve al saludo inicial.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.pending = false
	s.messages = s.seed()
}
