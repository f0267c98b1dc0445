package domain

// Стоимость действий в стамине.
// Предусловие команды: Stamina >= стоимости.
const (
	StaminaCostMove     = 1
	StaminaCostAttack   = 10
	StaminaCostJump     = 15
	StaminaCostInteract = 0
)

// Урон по умолчанию для команды атаки.
const DefaultAttackDamage = 5
