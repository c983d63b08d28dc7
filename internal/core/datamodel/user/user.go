package user

import "time"

// User is the persistence model for an account.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	FullName     string    `json:"full_name" gorm:"column:full_name;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"column:role;default:COLABORADOR"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}

// Profile carries the professional attributes of an employee or, for
// visitors, the personal/medical attributes gathered at redemption.
type Profile struct {
	ID                int64      `json:"id" gorm:"primaryKey"`
	UserID            int64      `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	TripID            *int64     `json:"viagem_id,omitempty" gorm:"column:trip_id"`
	Position          string     `json:"cargo" gorm:"column:position"`
	Department        string     `json:"departamento" gorm:"column:department"`
	CostCenter        string     `json:"centro_custo" gorm:"column:cost_center"`
	Document          string     `json:"documento" gorm:"column:document"`
	BirthDate         *time.Time `json:"data_nascimento,omitempty" gorm:"column:birth_date;type:date"`
	Phone             string     `json:"telefone" gorm:"column:phone"`
	EmergencyContact  string     `json:"contato_emergencia" gorm:"column:emergency_contact"`
	Allergies         string     `json:"alergias" gorm:"column:allergies"`
	MedicalConditions string     `json:"condicoes_medicas" gorm:"column:medical_conditions"`
	TermsAccepted     bool       `json:"termos_aceitos" gorm:"column:terms_accepted;default:false"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Profile) TableName() string {
	return "profiles"
}
