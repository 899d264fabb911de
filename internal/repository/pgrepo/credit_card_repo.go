package pgrepo

import (
	"context"

	"github.com/fsdevblog/transactions-service/internal/domain"
	"github.com/fsdevblog/transactions-service/internal/repository/repoargs"
	"github.com/fsdevblog/transactions-service/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const creditCardColumns = `id, created_at, card_number, account_holder, balance, credit_limit`

type CreditCardRepository struct {
	db uow.DBTX
}

func NewCreditCardRepository(db uow.DBTX) *CreditCardRepository {
	return &CreditCardRepository{db: db}
}

// Create регистрирует карту. Повторный номер карты - domain.ErrDuplicateKey.
func (c *CreditCardRepository) Create(ctx context.Context, args repoargs.CreditCardCreate) (*domain.CreditCard, error) {
	row := c.db.QueryRow(ctx, `
		INSERT INTO credit_cards (id, card_number, account_holder, balance, credit_limit)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+creditCardColumns,
		args.ID, args.CardNumber, args.AccountHolder, args.Balance, args.CreditLimit,
	)
	card, err := scanCreditCard(row)
	if err != nil {
		return nil, convertErr(err, "creating credit card")
	}
	return card, nil
}

func (c *CreditCardRepository) FindByID(ctx context.Context, id string) (*domain.CreditCard, error) {
	row := c.db.QueryRow(ctx, `SELECT `+creditCardColumns+` FROM credit_cards WHERE id = $1`, id)
	card, err := scanCreditCard(row)
	if err != nil {
		return nil, convertErr(err, "finding credit card by id `%s`", id)
	}
	return card, nil
}

// GetAll возвращает все карты в порядке регистрации.
func (c *CreditCardRepository) GetAll(ctx context.Context) ([]domain.CreditCard, error) {
	rows, err := c.db.Query(ctx, `SELECT `+creditCardColumns+` FROM credit_cards ORDER BY created_at, id`)
	if err != nil {
		return nil, convertErr(err, "getting credit cards")
	}
	defer rows.Close()

	var cards = make([]domain.CreditCard, 0)
	for rows.Next() {
		card, scanErr := scanCreditCard(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning credit card")
		}
		cards = append(cards, *card)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating credit cards")
	}
	return cards, nil
}

func scanCreditCard(row pgx.Row) (*domain.CreditCard, error) {
	var card domain.CreditCard
	if err := row.Scan(
		&card.ID,
		&card.CreatedAt,
		&card.CardNumber,
		&card.AccountHolder,
		&card.Balance,
		&card.CreditLimit,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &card, nil
}
