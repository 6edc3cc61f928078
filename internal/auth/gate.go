package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/habibulloh333/project-uas-prod/internal/domain/rbac"
)

// GateState — состояние автомата авторизации запроса.
type GateState string

const (
	// StateUnauthenticated — начальное состояние, заголовок ещё не разобран.
	StateUnauthenticated GateState = "unauthenticated"
	// StateTokenPresent — Bearer token извлечён, подпись не проверена.
	StateTokenPresent GateState = "token_present"
	// StateVerified — токен проверен, роль известна.
	StateVerified GateState = "verified"
	// StateAuthorized — роль удовлетворяет требованию маршрута.
	StateAuthorized GateState = "authorized"
	// StateRejected — запрос отклонён (401 или 403).
	StateRejected GateState = "rejected"
)

// allowedTransitions — матрица допустимых переходов.
var allowedTransitions = map[GateState][]GateState{
	StateUnauthenticated: {StateTokenPresent, StateRejected},
	StateTokenPresent:    {StateVerified, StateRejected},
	StateVerified:        {StateAuthorized, StateRejected},
}

// CanTransitionTo проверяет допустимость перехода из from в to.
func CanTransitionTo(from, to GateState) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Decision — итог прохождения запроса через Gate.
type Decision struct {
	// State — конечное состояние: StateAuthorized или StateRejected
	State GateState
	// Status — HTTP-статус отказа (401, 403); 0 для authorized
	Status int
	// Reason — человекочитаемая причина отказа
	Reason string
	// Claims — проверенные claims (nil, если токен не прошёл проверку)
	Claims *Claims
	// Trail — пройденные состояния, начиная с StateUnauthenticated
	Trail []GateState
}

// Allowed возвращает true, если запрос авторизован.
func (d *Decision) Allowed() bool { return d.State == StateAuthorized }

// TokenVerifier — проверка токена.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate — автомат авторизации одного запроса.
// Без требуемых ролей достаточно валидного токена с известной ролью.
type Gate struct {
	verifier TokenVerifier
}

// NewGate создаёт Gate поверх verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Evaluate проводит запрос через автомат:
// unauthenticated → token_present → verified → authorized | rejected.
func (g *Gate) Evaluate(authHeader string, required ...string) *Decision {
	d := &Decision{State: StateUnauthenticated, Trail: []GateState{StateUnauthenticated}}

	token, reason := bearerToken(authHeader)
	if reason != "" {
		return d.reject(http.StatusUnauthorized, reason)
	}
	d.advance(StateTokenPresent)

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return d.reject(http.StatusUnauthorized, "Невалидный или просроченный токен")
	}
	d.Claims = claims
	d.advance(StateVerified)

	if !rbac.SatisfiesAny(claims.User.Role, required...) {
		if len(required) == 0 {
			return d.reject(http.StatusForbidden, fmt.Sprintf("Неизвестная роль %q", claims.User.Role))
		}
		return d.reject(http.StatusForbidden,
			fmt.Sprintf("Недостаточно прав: требуется роль %s", strings.Join(required, " или ")))
	}
	d.advance(StateAuthorized)
	return d
}

func (d *Decision) advance(to GateState) {
	if !CanTransitionTo(d.State, to) {
		panic(fmt.Sprintf("auth: недопустимый переход %s → %s", d.State, to))
	}
	d.State = to
	d.Trail = append(d.Trail, to)
}

func (d *Decision) reject(status int, reason string) *Decision {
	d.advance(StateRejected)
	d.Status = status
	d.Reason = reason
	return d
}

// bearerToken извлекает токен из "Authorization: Bearer <token>".
// При ошибке возвращает пустой токен и причину.
func bearerToken(header string) (token, reason string) {
	if header == "" {
		return "", "Отсутствует заголовок Authorization"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "Неверный формат Authorization: ожидается Bearer <token>"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "Пустой Bearer token"
	}
	return token, ""
}
