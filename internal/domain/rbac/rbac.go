// Пакет rbac — роли Catalog Gateway и правила их сравнения.
// Роль admin включает все права роли user.
package rbac

// Роли в порядке возрастания привилегий.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

// Satisfies проверяет, что роль role покрывает требуемую роль required.
// Неизвестная роль не покрывает ничего.
func Satisfies(role, required string) bool {
	have, ok := roleWeight[role]
	if !ok {
		return false
	}
	need, ok := roleWeight[required]
	if !ok {
		return false
	}
	return have >= need
}

// SatisfiesAny проверяет, что роль покрывает хотя бы одну из требуемых.
// Пустой список требований означает «достаточно аутентификации».
func SatisfiesAny(role string, required ...string) bool {
	if len(required) == 0 {
		return IsValidRole(role)
	}
	for _, r := range required {
		if Satisfies(role, r) {
			return true
		}
	}
	return false
}
