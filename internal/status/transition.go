package status

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/backoffice/internal/model"
)

var (
	ErrUnknownWorkflow = errors.New("unknown workflow")
	ErrUnknownStatus   = errors.New("status not valid for workflow")
	ErrImageLimit      = errors.New("image limit reached")
)

// IncompleteError reports the fields a transition needs before it can be
// confirmed.
type IncompleteError struct {
	Workflow Workflow
	To       string
	Fields   map[string]string
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s -> %s: missing %s", e.Workflow, e.To, strings.Join(names, ", "))
}

// Input carries the values collected alongside a status selection.
type Input struct {
	RepairStartDate string           `json:"repairStartDate" validate:"omitempty,datetime=2006-01-02"`
	RepairEndDate   string           `json:"repairEndDate" validate:"omitempty,datetime=2006-01-02"`
	SlipImage       string           `json:"slipImage"`
	SalesPrice      *decimal.Decimal `json:"salesPrice" validate:"omitempty,gte=0"`
	SalesChannel    string           `json:"salesChannel" validate:"max=100"`
	PawnEndDate     string           `json:"pawnEndDate" validate:"omitempty,datetime=2006-01-02"`
	RedemptionSlip  string           `json:"redemptionSlip"`
	Images          []string         `json:"images" validate:"max=6,dive,required"`
}

// Missing returns the required fields of the wf -> to transition that are
// empty in in, keyed by JSON field name. Evidence images and redemption slips
// are never mandatory.
func Missing(wf Workflow, to string, in Input) map[string]string {
	var required map[string]string

	switch {
	case wf == Sale && to == SaleRepair, wf == Repair && to == RepairRepairing:
		required = map[string]string{
			"repairStartDate": in.RepairStartDate,
			"repairEndDate":   in.RepairEndDate,
		}
	case wf == Sale && to == SaleSold:
		required = map[string]string{"slipImage": in.SlipImage}
	case wf == Pawn && (to == PawnActive || to == PawnExtended):
		required = map[string]string{"pawnEndDate": in.PawnEndDate}
	}

	missing := map[string]string{}
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing[name] = "required"
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing
}

// CanConfirm reports whether the wf -> to transition has everything it needs.
func CanConfirm(wf Workflow, to string, in Input) bool {
	return len(Missing(wf, to, in)) == 0
}

// Apply moves it to state to in workflow wf and performs the side effects of
// entering that state. It returns the previous state. Nothing on it changes
// when an error is returned.
func Apply(it *model.Item, wf Workflow, to string, in Input) (string, error) {
	p := field(it, wf)
	if p == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownWorkflow, wf)
	}
	if !Valid(wf, to) {
		return "", fmt.Errorf("%w: %q in %s", ErrUnknownStatus, to, wf)
	}
	if missing := Missing(wf, to, in); missing != nil {
		return "", &IncompleteError{Workflow: wf, To: to, Fields: missing}
	}

	from := *p

	switch wf {
	case Intake:
		if to == IntakeUnsellable {
			images, err := appendAll(it.DefectImages, in.Images)
			if err != nil {
				return "", err
			}
			it.DefectImages = images
		}

	case Sale:
		switch to {
		case SaleReserved:
			it.RepairStartDate = ""
			it.RepairEndDate = ""
			it.ReserveStartDate = ""
			it.IsReserveOpen = false
		case SaleRepair:
			it.RepairStartDate = in.RepairStartDate
			it.RepairEndDate = in.RepairEndDate
		case SaleSold:
			it.SlipImage = in.SlipImage
			if in.SalesPrice != nil {
				it.SalesPrice = decimal.NewNullDecimal(*in.SalesPrice)
			}
			if in.SalesChannel != "" {
				it.SalesChannel = in.SalesChannel
			}
		}

	case Repair:
		if to == RepairRepairing {
			it.RepairStartDate = in.RepairStartDate
			it.RepairEndDate = in.RepairEndDate
		}

	case Pawn:
		switch to {
		case PawnActive, PawnExtended:
			it.PawnEndDate = in.PawnEndDate
		case PawnRedeemed:
			if in.RedemptionSlip != "" {
				slips, err := AppendImage(it.RedemptionSlips, in.RedemptionSlip)
				if err != nil {
					return "", err
				}
				it.RedemptionSlips = slips
			}
		}

	case Condition:
		if to == ConditionNotFinal {
			images, err := appendAll(it.ConditionImages, in.Images)
			if err != nil {
				return "", err
			}
			it.ConditionImages = images
		}
	}

	*p = to
	return from, nil
}

// AppendImage adds key to list, refusing to grow past MaxImages. The input
// slice is never modified.
func AppendImage(list []string, key string) ([]string, error) {
	if key == "" {
		return list, nil
	}
	if len(list) >= MaxImages {
		return list, ErrImageLimit
	}
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, key), nil
}

func appendAll(list, keys []string) ([]string, error) {
	out := list
	for _, k := range keys {
		var err error
		out, err = AppendImage(out, k)
		if err != nil {
			return list, err
		}
	}
	return out, nil
}

// VisibleDefectImages returns the defect images that apply to it. Images stay
// stored when an item is re-evaluated as sellable but are no longer shown.
func VisibleDefectImages(it *model.Item) []string {
	if it.ProductStatus != IntakeUnsellable {
		return nil
	}
	return it.DefectImages
}

// Paid reports whether the PAID indicator shows for it in wf.
func Paid(it *model.Item, wf Workflow) bool {
	switch wf {
	case Sale:
		s, ok := SaleStateOf(it).(Sold)
		return ok && s.Slip != ""
	case Pawn:
		s, ok := PawnStateOf(it).(Redeemed)
		return ok && s.Slip != ""
	}
	return false
}
