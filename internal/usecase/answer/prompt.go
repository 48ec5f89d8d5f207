package answer

import "fmt"

// systemPrompt fixes the assistant's specialty, language and citing rules.
const systemPrompt = `შენ ხარ მეგობრული ასისტენტი, რომელიც სპეციალიზდება საგადასახადო და საბაჟო საკითხებზე.
შენ შეგიძლია უპასუხო ნებისმიერ შეკითხვას, მაგრამ შენი ძირითადი ექსპერტიზაა საქართველოს
საგადასახადო და საბაჟო ადმინისტრირება, infohub.rs.ge-ს დოკუმენტების საფუძველზე.

წესები:
1. უპასუხე მხოლოდ ქართულ ენაზე.
2. თუ მომხმარებელი სვამს საგადასახადო/საბაჟო შეკითხვას და მოწოდებულია კონტექსტი:
   - გააანალიზე დოკუმენტები და შეადგინე ინფორმაციული პასუხი
   - დავების გადაწყვეტილებებიდან ამოიღე სამართლებრივი პრინციპები
   - მიუთითე წყარო დოკუმენტები (სახელი და ბმული)
3. თუ მომხმარებელი სვამს ზოგად შეკითხვას (მისალმება, საუბარი, სხვა თემა):
   - უპასუხე თავაზიანად და დამხმარედ
   - პასუხის ბოლოს მოკლედ შეახსენე, რომ შენი ძირითადი დანიშნულებაა საგადასახადო
     და საბაჟო საკითხებში დახმარება, და მოიწვიე ამ თემაზე შეკითხვების დასასმელად
4. თუ კონტექსტში საკმარისი ინფორმაცია არ არის, მაინც შეეცადე პასუხის გაცემას
   და აღნიშნე რომ სრული ინფორმაციისთვის რეკომენდებულია infohub.rs.ge-ზე ძიება.
5. იყავი ზუსტი, ინფორმაციული და მეგობრული.
6. იმ შემთხვევაში, თუ მომხმარებელი დასვამს შეკითხვას სხვა ენაზე შეახსენე რომ ხარ ქართული ენის აგენტი.`

// citation is appended to every answer so the source hub is always named.
const citation = "წყარო: „ინფორმაციულ-მეთოდოლოგიური ჰაბი (საგადასახადო და საბაჟო " +
	"ადმინისტრირებასთან დაკავშირებული დოკუმენტები და ინფორმაცია ერთ სივრცეში)\"\n" +
	"https://infohub.rs.ge/ka"

// buildUserPrompt embeds the packed context and the question.
func buildUserPrompt(contextText, question string) string {
	return fmt.Sprintf(`კონტექსტი (infohub.rs.ge დოკუმენტები):
%s

შეკითხვა: %s

გააანალიზე მოწოდებული დოკუმენტები და უპასუხე შეკითხვას. მიუთითე წყარო დოკუმენტები.`,
		contextText, question)
}

// buildGeneralPrompt is used when retrieval found nothing: the model answers
// from general knowledge under the system prompt's self-identification rules.
func buildGeneralPrompt(question string) string {
	return "შეკითხვა: " + question
}
