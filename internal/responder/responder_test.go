package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orumaiv/internal/common/logger"
	"orumaiv/internal/models"
	"orumaiv/internal/nlu"
	"orumaiv/internal/taskagent"
)

func newTestResponder(t *testing.T) *Responder {
	t.Helper()
	return NewWithPicker(logger.NewTestLogger(t), func(int) int { return 0 })
}

func TestResponder_WelcomeMessage_NoContext(t *testing.T) {
	reply := newTestResponder(t).WelcomeMessage(nil)

	assert.Contains(t, reply.Text, "não temos informações detalhadas")
	assert.Empty(t, reply.FollowupQuestion)
}

func TestResponder_WelcomeMessage_WithTaskSummary(t *testing.T) {
	task := &models.Task{
		Text:        "Sessão de pesquisa com usuários",
		Description: "Entrevistas com 5 participantes",
		Time:        "14h00",
		DueDate:     "2025-03-11",
		Priority:    models.PriorityHigh,
	}

	reply := newTestResponder(t).WelcomeMessage(task)

	assert.Contains(t, reply.Text, `"Sessão de pesquisa com usuários"`)
	assert.Contains(t, reply.Text, "Aqui está um resumo:")
	assert.Contains(t, reply.Text, "• Descrição: Entrevistas com 5 participantes")
	assert.Contains(t, reply.Text, "• Agendada para: 14h00")
	assert.Contains(t, reply.Text, "• Data: 2025-03-11")
	assert.Contains(t, reply.Text, "• Prioridade: Alta")
	assert.Contains(t, reply.Text, "preparar o roteiro")
	assert.Contains(t, reply.Text, "Como posso ajudar com esta tarefa hoje?")
}

func TestResponder_WelcomeMessage_TaskTypeSuggestions(t *testing.T) {
	tests := []struct {
		title    string
		fragment string
	}{
		{"Comprar pão na padaria", "lista de compras"},
		{"Consulta no dentista", "preparar-se para esta consulta"},
		{"Praticar yoga", "rotina regular"},
		{"Organizar documentos", "gerenciar esta tarefa"},
	}

	r := newTestResponder(t)
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			reply := r.WelcomeMessage(&models.Task{Text: tt.title})
			assert.Contains(t, reply.Text, tt.fragment)
		})
	}
}

func TestResponder_Generate_ErrorIntent(t *testing.T) {
	reply := newTestResponder(t).Generate(nlu.ClassificationResult{Intent: nlu.IntentError}, nil, "qualquer coisa", nil)

	assert.Equal(t, "Desculpe, encontrei um problema ao processar sua mensagem. Poderia tentar novamente?", reply.Text)
}

func TestResponder_Generate_TaskConfirmations(t *testing.T) {
	r := newTestResponder(t)

	create := r.Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskCreate},
		&taskagent.Result{Success: true, Action: taskagent.ActionCreate, TaskData: &models.Task{Text: "comprar leite"}},
		"criar tarefa comprar leite", nil)
	assert.Equal(t, `Tarefa "comprar leite" criada com sucesso!`, create.Text)
	assert.Equal(t, "Gostaria de definir um lembrete para esta tarefa?", create.FollowupQuestion)

	update := r.Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskUpdate},
		&taskagent.Result{Success: true, Action: taskagent.ActionUpdate},
		"mudar prioridade", nil)
	assert.Equal(t, "Tarefa atualizada com sucesso!", update.Text)

	remove := r.Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskDelete},
		&taskagent.Result{Success: true, Action: taskagent.ActionDelete},
		"excluir tarefa", nil)
	assert.Equal(t, "Tarefa excluída com sucesso!", remove.Text)

	complete := r.Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskComplete},
		&taskagent.Result{Success: true, Action: taskagent.ActionComplete},
		"completar tarefa", nil)
	assert.Equal(t, "Ótimo! Marquei a tarefa como concluída. Parabéns pelo progresso!", complete.Text)
}

func TestResponder_Generate_TaskFailureUsesActionText(t *testing.T) {
	reply := newTestResponder(t).Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskUpdate},
		&taskagent.Result{Action: taskagent.ActionUpdate, Error: "Nenhuma tarefa selecionada para atualizar"},
		"atualizar tarefa", nil)

	assert.Equal(t, "Não foi possível atualizar a tarefa: Nenhuma tarefa selecionada para atualizar", reply.Text)
}

func TestResponder_Generate_TaskList(t *testing.T) {
	reply := newTestResponder(t).Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskList},
		&taskagent.Result{Success: true, Action: taskagent.ActionList},
		"listar tarefas", nil)

	assert.Equal(t, "As tarefas estão listadas na tela principal.", reply.Text)
	assert.NotEmpty(t, reply.FollowupQuestion)
}

func TestResponder_Generate_TaskQuery(t *testing.T) {
	r := newTestResponder(t)
	task := &models.Task{Text: "Reunião semanal", Time: "10h00", Priority: models.PriorityMedium}

	withContext := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentTaskQuery}, nil, "me fale sobre a tarefa", task)
	assert.Contains(t, withContext.Text, `Informações sobre a tarefa "Reunião semanal"`)
	assert.Contains(t, withContext.Text, "Horário: 10h00")
	assert.Contains(t, withContext.Text, "Prioridade: Média")

	withoutContext := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentTaskQuery}, nil, "me fale sobre a tarefa", nil)
	assert.Equal(t, "Por favor, selecione uma tarefa específica para ver mais detalhes.", withoutContext.Text)
}

func TestResponder_Generate_Greeting(t *testing.T) {
	r := newTestResponder(t)

	bare := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGreeting}, nil, "olá", nil)
	assert.Equal(t, "Olá! Como posso ajudar você hoje?", bare.Text)
	assert.Equal(t, "Gostaria de criar uma nova tarefa ou gerenciar as existentes?", bare.FollowupQuestion)

	withTask := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGreeting}, nil, "olá", &models.Task{Text: "Yoga"})
	assert.Contains(t, withTask.Text, `trabalhando na tarefa "Yoga"`)
	assert.Equal(t, "Gostaria de atualizar esta tarefa ou criar uma nova?", withTask.FollowupQuestion)
}

func TestResponder_Generate_GreetingVariants(t *testing.T) {
	for i := 0; i < len(greetings); i++ {
		idx := i
		r := NewWithPicker(logger.NewTestLogger(t), func(int) int { return idx })
		reply := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGreeting}, nil, "oi", nil)
		assert.Equal(t, greetings[idx], reply.Text)
	}
}

func TestResponder_Generate_Help(t *testing.T) {
	r := newTestResponder(t)

	bare := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentHelp}, nil, "ajuda", nil)
	assert.Contains(t, bare.Text, "1. Criar novas tarefas")
	assert.Contains(t, bare.Text, "5. Listar suas tarefas")
	assert.NotContains(t, bare.Text, "visualizando a tarefa")

	withTask := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentHelp}, nil, "ajuda", &models.Task{Text: "Estudar Go"})
	assert.Contains(t, withTask.Text, `visualizando a tarefa "Estudar Go"`)
}

func TestResponder_Generate_SpecificAnswers(t *testing.T) {
	r := newTestResponder(t)
	task := &models.Task{Text: "Consulta médica", Time: "9h00", Description: "Levar exames"}

	self := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGeneralQuestion}, nil, "quem é você?", nil)
	assert.Contains(t, self.Text, "Sou Orumaiv")

	schedule := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGeneralQuestion}, nil, "quando é a consulta?", task)
	assert.Contains(t, schedule.Text, "está agendada para 9h00")
	assert.Contains(t, schedule.Text, "Detalhes: Levar exames")

	details := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGeneralQuestion}, nil, "me dê detalhes", task)
	assert.Contains(t, details.Text, `Esta tarefa é "Consulta médica"`)

	fallback := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentGeneralQuestion}, nil, "qual a capital da França?", nil)
	assert.Contains(t, fallback.Text, "Não tenho informações específicas sobre isso")
}

func TestResponder_Generate_DefaultBranch(t *testing.T) {
	r := newTestResponder(t)

	bare := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentUnknown}, nil, "hmm", nil)
	assert.Equal(t, "Estou aqui principalmente para ajudar com suas tarefas. Como posso auxiliar?", bare.Text)

	withTask := r.Generate(nlu.ClassificationResult{Intent: nlu.IntentUnknown}, nil, "hmm", &models.Task{Text: "Ler livro"})
	assert.Contains(t, withTask.Text, `visualizando "Ler livro"`)
}

func TestResponder_FormatTaskInfo_Empty(t *testing.T) {
	reply := newTestResponder(t).Generate(
		nlu.ClassificationResult{Intent: nlu.IntentTaskQuery}, nil, "detalhes",
		&models.Task{Text: "Tarefa simples"})

	assert.Contains(t, reply.Text, "Sem detalhes adicionais.")
}
