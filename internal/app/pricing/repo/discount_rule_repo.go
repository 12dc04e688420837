package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/models/m_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/pkg/query"
)

// NUMERIC columns carry nine fractional digits.
const numericScale = 9

// DiscountRuleRepo implements DiscountRuleRepository for Spanner.
type DiscountRuleRepo struct {
	client *spanner.Client
	model  *m_discount_rule.Model
}

// NewDiscountRuleRepo creates a new DiscountRuleRepo.
func NewDiscountRuleRepo(client *spanner.Client) *DiscountRuleRepo {
	return &DiscountRuleRepo{
		client: client,
		model:  m_discount_rule.NewModel(),
	}
}

var _ contracts.DiscountRuleRepository = (*DiscountRuleRepo)(nil)

// GetActiveRules returns the rules valid at asOf for the product or for any product.
func (r *DiscountRuleRepo) GetActiveRules(ctx context.Context, product domain.Product, asOf time.Time) ([]*domain.DiscountRule, error) {
	stmt := query.From(m_discount_rule.TableName).
		Select(m_discount_rule.Columns...).
		Where(query.In(m_discount_rule.Product, []string{string(product), string(domain.ProductAny)})).
		Where(query.ActiveAt(m_discount_rule.ValidFrom, m_discount_rule.ValidTo, asOf.UTC())...).
		OrderBy(m_discount_rule.RuleID, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	rules := make([]*domain.DiscountRule, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate discount rules: %w", err)
		}

		var data m_discount_rule.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse discount rule: %w", err)
		}

		rule, err := dataToRule(&data)
		if err != nil {
			return nil, fmt.Errorf("invalid discount rule %s: %w", data.RuleID, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// GetByID retrieves a rule by ID.
func (r *DiscountRuleRepo) GetByID(ctx context.Context, ruleID string) (*domain.DiscountRule, error) {
	row, err := r.client.Single().ReadRow(ctx, m_discount_rule.TableName, spanner.Key{ruleID}, m_discount_rule.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to read discount rule: %w", err)
	}

	var data m_discount_rule.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse discount rule: %w", err)
	}
	return dataToRule(&data)
}

// InsertMut creates a mutation for inserting a new rule.
func (r *DiscountRuleRepo) InsertMut(rule *domain.DiscountRule) *spanner.Mutation {
	return r.model.InsertMut(ruleToData(rule))
}

// RetireMut creates a mutation that persists the end of a rule's validity.
func (r *DiscountRuleRepo) RetireMut(rule *domain.DiscountRule) *spanner.Mutation {
	return r.model.UpdateMut(rule.ID(), map[string]interface{}{
		m_discount_rule.ValidTo: nullTime(rule.Window().To),
	})
}

func ruleToData(rule *domain.DiscountRule) *m_discount_rule.Data {
	data := &m_discount_rule.Data{
		RuleID:    rule.ID(),
		Product:   string(rule.Product()),
		Kind:      string(rule.Kind()),
		Threshold: rule.Threshold(),
		ValidFrom: rule.Window().From,
		ValidTo:   nullTime(rule.Window().To),
	}

	if effect := rule.Effect(); effect.IsPercent() {
		data.PercentOff = spanner.NullNumeric{Numeric: *effect.Percent().Rat(), Valid: true}
	} else {
		data.AmountOff = spanner.NullInt64{Int64: effect.Amount().Int64(), Valid: true}
	}

	if rule.Code() != "" {
		data.Code = spanner.NullString{StringVal: rule.Code(), Valid: true}
	}
	return data
}

func dataToRule(data *m_discount_rule.Data) (*domain.DiscountRule, error) {
	var percentOff *decimal.Decimal
	if data.PercentOff.Valid {
		p, err := decimal.NewFromString(data.PercentOff.Numeric.FloatString(numericScale))
		if err != nil {
			return nil, fmt.Errorf("invalid percent_off: %w", err)
		}
		percentOff = &p
	}

	var amountOff *domain.Money
	if data.AmountOff.Valid {
		a := domain.Money(data.AmountOff.Int64)
		amountOff = &a
	}

	effect, err := domain.EffectFromColumns(percentOff, amountOff)
	if err != nil {
		return nil, err
	}

	window, err := domain.NewWindow(data.ValidFrom, timeOrZero(data.ValidTo))
	if err != nil {
		return nil, err
	}

	return domain.NewDiscountRule(domain.DiscountRuleParams{
		ID:        data.RuleID,
		Product:   domain.Product(data.Product),
		Kind:      domain.RuleKind(data.Kind),
		Threshold: data.Threshold,
		Effect:    effect,
		Code:      data.Code.StringVal,
		Window:    window,
	})
}
