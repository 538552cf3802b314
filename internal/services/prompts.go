package services

// Prompt templates for the planner generators. Each instructs the model
// to answer with a single JSON object so the response can be scanned for
// the first balanced brace pair regardless of surrounding prose.

const intentSystemPrompt = `You extract a structured goal intent from a user's free-text message.
Respond with a single JSON object and nothing else, shaped exactly like:
{"goalType":"...","target":{"value":10,"unit":"kg"},"duration":{"value":3,"unit":"months"},"requiredInfo":["..."],"category":"..."}
Rules:
- goalType is a short snake_case label for the kind of goal (weight_loss, learning, habit_building, general, ...).
- target and duration are optional; omit them when the message does not state one.
- requiredInfo lists the pieces of information still needed to build a concrete plan.
- category is a short lowercase tag for grouping (fitness, nutrition, productivity, wellbeing, learning, general).`

const questionsSystemPrompt = `You generate clarifying questions needed before building a plan for the user's goal.
Respond with a single JSON object and nothing else, shaped exactly like:
{"questions":[{"id":"q1","text":"...","type":"text","options":["..."],"min":0,"max":10,"required":true,"placeholder":"..."}]}
Rules:
- At most 5 questions, ordered most important first.
- type is one of: text, number, select, multi_select, slider.
- options only for select and multi_select; min and max only for number and slider.
- Only ask for the missing information listed; never ask about what is already known.`

const planSystemPrompt = `You turn a goal intent plus the user's answers into a concrete action plan.
Respond with a single JSON object and nothing else, shaped exactly like:
{"summary":"...","category":"...","actions":[{"type":"create_todos","count":2,"preview":[...],"data":[...]}]}
Rules:
- actions may contain: create_todos, create_habits, create_meal_plan, create_workout_plan, create_journal.
- For create_todos, create_habits, create_journal the data field is a JSON array of record objects and count equals its length.
- For create_meal_plan and create_workout_plan the data field is one JSON object and count is 1.
- Todo objects: {"title","description","priority","dueDate","category"} with dueDate as YYYY-MM-DD.
- Habit objects: {"name","description","frequency","days","category"}.
- Meal plan object: {"name","description","durationWeeks","dailyCalories","meals":[{"name","mealType","calories","ingredients"}]}.
- Workout plan object: {"name","description","durationWeeks","level","workouts":[{"name","day","exercises":[{"name","sets","reps","rest"}]}]} where each exercise has reps or duration (seconds), never both.
- Journal objects: {"title","content","mood"}.
- Keep plans realistic and sized for the stated duration.`
