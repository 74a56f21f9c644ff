package prompt

const defaultReviewTemplate = "You are a neuroscientist and expert in brain imaging, " +
	"invited to provide a peer review of a submitted research paper. " +
	"Please provide a thorough and critical review of the paper. " +
	"Start with a brief summary of the study and its results, " +
	"then provide a detailed point-by-point analysis of any flaws or concerns with the study.\n\n" +
	"The paper to be reviewed follows:\n\n{paper_text}"

const defaultMetaReviewTemplate = "The attached file contains several peer reviews of a research article. " +
	"Please summarize these reviews into a meta-review, highlighting both the common points raised " +
	"across reviewers and the specific concerns raised by only a subset of reviewers. " +
	"In the meta-review, list all major concerns raised by any reviewer. " +
	"After completing the meta-review, add a section titled 'CONCERNS_TABLE_DATA' " +
	"containing a JSON object that represents the table of concerns. " +
	"Each row should represent one distinct concern, with one column per reviewer. " +
	"Use the following format:\n\n" +
	"```json\n" +
	"{\n" +
	"  \"concerns\": [\n" +
	"    {\n" +
	"      \"concern\": \"Brief description of concern 1\",\n" +
	"      \"alfa\": true/false,\n" +
	"      \"bravo\": true/false,\n" +
	"      ...\n" +
	"    },\n" +
	"    ...\n" +
	"  ]\n" +
	"}\n" +
	"```\n\n" +
	"Throughout the meta-review, refer to the reviewers by their assigned NATO phonetic names " +
	"(e.g. alfa, bravo, charlie).\n\n" +
	"{reviews_text}"
