package listing

import "strings"

// Condition 车况
type Condition string

const (
	ConditionNew               Condition = "new"
	ConditionUsed              Condition = "used"
	ConditionCertifiedPreOwned Condition = "certified-pre-owned"
	ConditionSalvage           Condition = "salvage"
)

// Conditions 全部车况，按精选分组展示顺序
var Conditions = []Condition{ConditionNew, ConditionUsed, ConditionCertifiedPreOwned, ConditionSalvage}

// Transmission 变速箱类型
type Transmission string

const (
	TransmissionManual    Transmission = "manual"
	TransmissionAutomatic Transmission = "automatic"
	TransmissionCVT       Transmission = "cvt"
	TransmissionDCT       Transmission = "dct"
)

// FuelType 燃料类型
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelHybrid   FuelType = "hybrid"
	FuelElectric FuelType = "electric"
	FuelLPG      FuelType = "lpg"
)

// BodyType 车身类型
type BodyType string

const (
	BodySedan       BodyType = "sedan"
	BodyHatchback   BodyType = "hatchback"
	BodySUV         BodyType = "suv"
	BodyCoupe       BodyType = "coupe"
	BodyConvertible BodyType = "convertible"
	BodyWagon       BodyType = "wagon"
	BodyPickup      BodyType = "pickup"
	BodyVan         BodyType = "van"
	BodyMotorcycle  BodyType = "motorcycle"
)

var (
	transmissions = []Transmission{TransmissionManual, TransmissionAutomatic, TransmissionCVT, TransmissionDCT}
	fuelTypes     = []FuelType{FuelPetrol, FuelDiesel, FuelHybrid, FuelElectric, FuelLPG}
	bodyTypes     = []BodyType{BodySedan, BodyHatchback, BodySUV, BodyCoupe, BodyConvertible, BodyWagon, BodyPickup, BodyVan, BodyMotorcycle}
)

func parseEnum[T ~string](raw string, allowed []T) (T, bool) {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if a == v {
			return v, true
		}
	}
	return "", false
}

// ParseCondition 解析车况，未知值返回 false
func ParseCondition(raw string) (Condition, bool) { return parseEnum(raw, Conditions) }

// ParseTransmission 解析变速箱类型
func ParseTransmission(raw string) (Transmission, bool) { return parseEnum(raw, transmissions) }

// ParseFuelType 解析燃料类型
func ParseFuelType(raw string) (FuelType, bool) { return parseEnum(raw, fuelTypes) }

// ParseBodyType 解析车身类型
func ParseBodyType(raw string) (BodyType, bool) { return parseEnum(raw, bodyTypes) }

// ConditionValues 返回车况枚举字符串，供请求校验使用
func ConditionValues() []string { return enumStrings(Conditions) }

// TransmissionValues 返回变速箱枚举字符串
func TransmissionValues() []string { return enumStrings(transmissions) }

// FuelTypeValues 返回燃料枚举字符串
func FuelTypeValues() []string { return enumStrings(fuelTypes) }

// BodyTypeValues 返回车身枚举字符串
func BodyTypeValues() []string { return enumStrings(bodyTypes) }

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
