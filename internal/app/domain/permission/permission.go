package permission

import "fmt"

// Role - роль пользователя в беседе. Staff не хранится в беседе и перекрывает остальные роли.
type Role int

const (
	User          Role = 0
	Moderator     Role = 1
	Administrator Role = 2
	Staff         Role = 100
)

// Parse принимает только роли, которые можно назначить в беседе.
func Parse(v int) (Role, error) {
	switch Role(v) {
	case User, Moderator, Administrator:
		return Role(v), nil
	case Staff:
		return 0, fmt.Errorf("role %d is not assignable", v)
	default:
		return 0, fmt.Errorf("unknown role %d", v)
	}
}

// Stored сообщает, хранится ли роль отдельной записью. Роль User - это отсутствие записи.
func (r Role) Stored() bool {
	switch r {
	case Moderator, Administrator:
		return true
	case User, Staff:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	switch r {
	case User:
		return "user"
	case Moderator:
		return "moderator"
	case Administrator:
		return "administrator"
	case Staff:
		return "staff"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Title - название роли для пользователя.
func (r Role) Title() string {
	switch r {
	case User:
		return "Пользователь"
	case Moderator:
		return "Модератор"
	case Administrator:
		return "Администратор"
	case Staff:
		return "Персонал"
	default:
		return r.String()
	}
}

// StaffRole - роль в таблице персонала.
type StaffRole string

const (
	StaffTech StaffRole = "TECH"
)

// Overrides сообщает, даёт ли роль персонала права Staff во всех беседах.
func (s StaffRole) Overrides() bool {
	switch s {
	case StaffTech:
		return true
	default:
		return false
	}
}
