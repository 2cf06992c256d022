package status

import (
	"strings"

	"github.com/erazemk/backoffice/internal/model"
)

// Color is the display category of a label.
type Color string

// Colors.
const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Blue   Color = "blue"
	Orange Color = "orange"
	Red    Color = "red"
	Purple Color = "purple"
	Gray   Color = "gray"
)

// Label is the display form of a stored status value.
type Label struct {
	Key   string `json:"key"`
	Text  string `json:"label"`
	Color Color  `json:"color"`
}

var globalOrder = []string{
	KeyReady, KeyReadySale, KeyReserved, KeySold, KeyRepair, KeyReturnCustomer,
	KeyExtended, KeyRepairing, KeyRepaired, KeyNotRepair, KeyCompleted,
	KeyPending, KeyRepairDone,
}

var globalLabels = map[string]Label{
	KeyReady:          {KeyReady, "พร้อมขาย", Green},
	KeyReadySale:      {KeyReadySale, "พร้อมขาย", Green},
	KeyReserved:       {KeyReserved, "ติดจอง", Yellow},
	KeySold:           {KeySold, "ขายแล้ว", Blue},
	KeyRepair:         {KeyRepair, "ส่งซ่อม", Orange},
	KeyReturnCustomer: {KeyReturnCustomer, "คืนลูกค้า", Gray},
	KeyExtended:       {KeyExtended, "ต่อดอก", Purple},
	KeyRepairing:      {KeyRepairing, "กำลังซ่อม", Orange},
	KeyRepaired:       {KeyRepaired, "ซ่อมเสร็จ", Green},
	KeyNotRepair:      {KeyNotRepair, "ซ่อมไม่ได้", Red},
	KeyCompleted:      {KeyCompleted, "จ่ายแล้ว", Green},
	KeyPending:        {KeyPending, "รอจ่าย", Yellow},
	KeyRepairDone:     {KeyRepairDone, "ซ่อมเสร็จ", Green},
}

var workflowLabels = map[Workflow]map[string]Label{
	Intake: {
		IntakeSellable:   {IntakeSellable, "ขายได้", Green},
		IntakeUnsellable: {IntakeUnsellable, "ขายไม่ได้", Red},
	},
	Sale: {
		SaleReady:    {SaleReady, "พร้อมขาย", Green},
		SaleReserved: {SaleReserved, "ติดจอง", Yellow},
		SaleRepair:   {SaleRepair, "ส่งซ่อม", Orange},
		SaleSold:     {SaleSold, "ขายแล้ว", Blue},
	},
	Repair: {
		RepairRepairing: {RepairRepairing, "กำลังซ่อม", Orange},
		RepairDone:      {RepairDone, "ซ่อมเสร็จ", Green},
		RepairReturned:  {RepairReturned, "คืนลูกค้า", Gray},
	},
	Pawn: {
		PawnActive:   {PawnActive, "ยังไม่ครบกำหนด", Green},
		PawnExtended: {PawnExtended, "ต่อดอก", Purple},
		PawnRedeemed: {PawnRedeemed, "ไถ่ถอนแล้ว", Blue},
	},
	Condition: {
		ConditionFinal:    {ConditionFinal, "ซ่อมได้", Green},
		ConditionNotFinal: {ConditionNotFinal, "ซ่อมไม่ได้", Red},
	},
}

// LabelOf resolves key in the table of wf, then in the global table. Unknown
// keys come back as their raw value.
func LabelOf(wf Workflow, key string) Label {
	if l, ok := workflowLabels[wf][key]; ok {
		return l
	}
	return GlobalLabel(key)
}

// GlobalLabel resolves key in the uppercase table only.
func GlobalLabel(key string) Label {
	if l, ok := globalLabels[key]; ok {
		return l
	}
	return Label{Key: key, Text: key, Color: Gray}
}

// Table returns the labels offered by the selector of wf, or the whole global
// table when wf is empty.
func Table(wf Workflow) []Label {
	if wf == "" {
		labels := make([]Label, 0, len(globalOrder))
		for _, k := range globalOrder {
			labels = append(labels, globalLabels[k])
		}
		return labels
	}
	var labels []Label
	for _, s := range selectors[wf] {
		labels = append(labels, LabelOf(wf, s))
	}
	return labels
}

// Normalize trims and upper-cases a stored status for comparison with the
// global keys.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Badge returns the dashboard badge of it. An open reservation shows as
// reserved whatever the stored status says.
func Badge(it *model.Item) Label {
	norm := Normalize(it.Status)
	if it.IsReserveOpen || norm == KeyReserved {
		return globalLabels[KeyReserved]
	}
	if l, ok := globalLabels[norm]; ok {
		return l
	}
	return Label{Key: it.Status, Text: it.Status, Color: Gray}
}
