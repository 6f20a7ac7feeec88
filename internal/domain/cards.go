package domain

import "fmt"

// BonusEffect is the effect a bonus card applies when committed.
type BonusEffect string

const (
	BonusDamageBoost       BonusEffect = "damage_boost"
	BonusShield            BonusEffect = "shield"
	BonusFirstAttackCancel BonusEffect = "first_attack_cancel"
	BonusPoison            BonusEffect = "poison"
	BonusDoubleDeploy      BonusEffect = "double_deploy"
	BonusGroupBuff         BonusEffect = "group_buff"
	BonusUltimateShield    BonusEffect = "ultimate_shield"
	BonusExpandSlot        BonusEffect = "expand_slot"
)

// BonusCard is a draft card that modifies live units or the deploy rules.
type BonusCard struct {
	ID         string      `yaml:"id" json:"id" validate:"required"`
	Name       string      `yaml:"name" json:"name"`
	PipCost    int         `yaml:"pip_cost" json:"pip_cost" validate:"min=1,max=2"`
	Rarity     Rarity      `yaml:"rarity" json:"rarity" validate:"required,rarity"`
	Effect     BonusEffect `yaml:"effect" json:"effect" validate:"required,oneof=damage_boost shield first_attack_cancel poison double_deploy group_buff ultimate_shield expand_slot"`
	Value      float64     `yaml:"value" json:"value" validate:"gte=0"`
	TargetKind UnitKind    `yaml:"target_kind,omitempty" json:"target_kind,omitempty" validate:"omitempty,unitkind"`
}

// Validate checks the card against its struct tags. Group buffs also need a target kind.
func (c *BonusCard) Validate() error {
	if err := validatorInstance.Struct(c); err != nil {
		return err
	}
	if c.Effect == BonusGroupBuff && c.TargetKind == "" {
		return fmt.Errorf("bonus %q: group_buff requires target_kind", c.ID)
	}
	return nil
}

// SkillType is the category of a skill card.
type SkillType string

const (
	SkillAttack  SkillType = "attack"
	SkillDefense SkillType = "defense"
	SkillSpecial SkillType = "special"
)

// SkillCard is offered on skill turns and buffs the selecting side for the next battle only.
type SkillCard struct {
	ID           string    `yaml:"id" json:"id" validate:"required"`
	Name         string    `yaml:"name" json:"name"`
	Type         SkillType `yaml:"skill_type" json:"skill_type" validate:"required,oneof=attack defense special"`
	AttackBonus  float64   `yaml:"attack_bonus" json:"attack_bonus" validate:"gte=0"`
	DefenseBonus float64   `yaml:"defense_bonus" json:"defense_bonus" validate:"gte=0"`
}

// Validate checks the card against its struct tags.
func (c *SkillCard) Validate() error {
	return validatorInstance.Struct(c)
}
