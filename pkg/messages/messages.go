package messages

// User facing messages. These are in Portuguese to match the communities the
// bot is deployed in.
const (
	// ErrUserErrorProcessing is the generic failure message shown to users.
	ErrUserErrorProcessing = "Ocorreu um erro ao processar sua solicitação. Por favor, tente novamente ou contate um administrador."

	// ErrAdministratorOnly is shown when a non administrator uses a config command.
	ErrAdministratorOnly = "Apenas administradores podem usar este comando."

	// ErrStaffOnly is shown when a non staff member uses a staff affordance.
	ErrStaffOnly = "Apenas membros da equipe podem realizar esta ação."

	// ErrTicketNotFound is shown when the channel is not bound to a ticket.
	ErrTicketNotFound = "Erro: Ticket não encontrado para este canal."

	// ErrInvalidUrgency is shown when the urgency value is not one of the
	// accepted three.
	ErrInvalidUrgency = "Por favor, escolha entre: **baixa**, **média** ou **alta**"

	// ErrConfirmationExpired is shown when the delete confirmation is used
	// after its expiry window.
	ErrConfirmationExpired = "Esta confirmação expirou. Clique em deletar novamente para tentar de novo."
)
