package domain

import (
	"github.com/go-playground/validator/v10"
)

// validatorInstance is shared by every model in the package so struct
// metadata is cached once.
var validatorInstance = validator.New()

func init() {
	_ = validatorInstance.RegisterValidation("unitkind", validateUnitKind)
	_ = validatorInstance.RegisterValidation("rarity", validateRarity)
}

// UnitKind selects the targeting rule and attack capability of a unit.
type UnitKind string

const (
	Melee     UnitKind = "melee"
	Ranged    UnitKind = "ranged"
	Assassin  UnitKind = "assassin"
	Explosive UnitKind = "explosive"
	Support   UnitKind = "support"
)

// UnitKinds lists every known kind.
var UnitKinds = []UnitKind{Melee, Ranged, Assassin, Explosive, Support}

// Valid reports whether k is a known kind.
func (k UnitKind) Valid() bool {
	for _, known := range UnitKinds {
		if k == known {
			return true
		}
	}
	return false
}

func validateUnitKind(fl validator.FieldLevel) bool {
	return UnitKind(fl.Field().String()).Valid()
}

// Rarity weights a unit or card in draft offers.
type Rarity string

const (
	Common   Rarity = "common"
	Uncommon Rarity = "uncommon"
	Rare     Rarity = "rare"
)

func validateRarity(fl validator.FieldLevel) bool {
	switch Rarity(fl.Field().String()) {
	case Common, Uncommon, Rare:
		return true
	}
	return false
}

// UnitTemplate is the immutable configuration of one unit type. Templates are
// loaded from the catalog and never mutated by the roster or the simulator.
type UnitTemplate struct {
	ID                 string   `yaml:"id" json:"id" validate:"required"`
	Name               string   `yaml:"name" json:"name"`
	BaseHealth         int      `yaml:"base_health" json:"base_health" validate:"gt=0"`
	BaseDamage         int      `yaml:"base_damage" json:"base_damage" validate:"gte=0"`
	Level              int      `yaml:"level" json:"level" validate:"min=1,max=3"`
	Kind               UnitKind `yaml:"unit_kind" json:"unit_kind" validate:"required,unitkind"`
	Rarity             Rarity   `yaml:"rarity" json:"rarity" validate:"required,rarity"`
	AttackRange        float64  `yaml:"attack_range" json:"attack_range" validate:"gt=0"`
	MoveSpeed          float64  `yaml:"move_speed" json:"move_speed" validate:"gte=0"`
	AttackCooldown     float64  `yaml:"attack_cooldown" json:"attack_cooldown" validate:"gt=0"`
	MaxStackPerSlot    int      `yaml:"max_stack_per_slot" json:"max_stack_per_slot" validate:"gte=1"`
	FormationPriority  int      `yaml:"formation_priority" json:"formation_priority" validate:"min=0,max=100"`
	MaxPerFormationRow int      `yaml:"max_per_formation_row" json:"max_per_formation_row" validate:"gte=1"`
	IsExplosive        bool     `yaml:"is_explosive" json:"is_explosive"`
	ExplosionDamage    int      `yaml:"explosion_damage" json:"explosion_damage" validate:"gte=0,required_if=IsExplosive true"`
	HasTeleport        bool     `yaml:"has_teleport" json:"has_teleport"`
	HasSupport         bool     `yaml:"has_support" json:"has_support"`
}

// Validate checks the template against its struct tags.
func (t *UnitTemplate) Validate() error {
	return validatorInstance.Struct(t)
}

// ScaledHealth is the full health of a fresh instance at the template's level.
func (t *UnitTemplate) ScaledHealth() int {
	return t.BaseHealth * t.level()
}

// ScaledDamage is the per-attack damage of a fresh instance at the template's level.
func (t *UnitTemplate) ScaledDamage() int {
	return t.BaseDamage * t.level()
}

func (t *UnitTemplate) level() int {
	if t.Level < 1 {
		return 1
	}
	return t.Level
}
